// Command interest_posting posts or previews savings interest for one
// account or for every active account.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	portssvc "github.com/SscSPs/savings_servicing/internal/core/ports/services"
	"github.com/SscSPs/savings_servicing/internal/core/services"
	"github.com/SscSPs/savings_servicing/internal/dto"
	"github.com/SscSPs/savings_servicing/internal/platform/config"
	"github.com/SscSPs/savings_servicing/internal/platform/logging"
	"github.com/SscSPs/savings_servicing/internal/platform/metrics"
	"github.com/SscSPs/savings_servicing/internal/repositories/database/pgsql"
	"github.com/SscSPs/savings_servicing/internal/utils/dates"
	"github.com/SscSPs/savings_servicing/pkg/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
)

type options struct {
	accountID        string
	all              bool
	upTo             string
	asOn             string
	businessDate     string
	dryRun           bool
	interestTransfer bool
	skipMigrations   bool
	metricsTextfile  string
	userID           string
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("interest_posting", pflag.ContinueOnError)
	fs.StringVar(&opts.accountID, "account", "", "account id to post interest for")
	fs.BoolVar(&opts.all, "all", false, "post interest for every active account")
	fs.StringVar(&opts.upTo, "up-to", "", "last date to compute interest for (YYYY-MM-DD), defaults to the business date")
	fs.StringVar(&opts.asOn, "as-on", "", "ad hoc posting date (YYYY-MM-DD)")
	fs.StringVar(&opts.businessDate, "business-date", "", "override the business date (YYYY-MM-DD)")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "compute interest without persisting anything")
	fs.BoolVar(&opts.interestTransfer, "interest-transfer", false, "mark the run as an interest transfer")
	fs.BoolVar(&opts.skipMigrations, "skip-migrations", false, "do not apply pending migrations")
	fs.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file after the run")
	fs.StringVar(&opts.userID, "user", "system", "user id recorded on created entries")

	// Overrides for configuration keys, see config.LoadConfig.
	fs.String("pgsql-url", "", "PostgreSQL connection URL")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("migrations-path", "", "golang-migrate source URL")
	fs.Bool("backdated-txns-pivot-mode", false, "recompute only from the interest-posted-till date forward")
	fs.Bool("interest-posting-at-period-end", true, "date postings on the period end instead of the next day")
	fs.Int("fiscal-year-start-month", 1, "first month of the fiscal year (1-12)")
	fs.String("rounding-mode", "", "currency rounding mode, e.g. HALF_EVEN")
	return fs
}

func (o options) validate() error {
	if (o.accountID == "") == !o.all {
		return errors.New("exactly one of --account or --all is required")
	}
	if o.all && o.dryRun {
		return errors.New("--dry-run is only supported with --account")
	}
	return nil
}

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := dates.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	return &d, nil
}

func (o options) postingRequest() (dto.PostInterestRequest, error) {
	req := dto.PostInterestRequest{InterestTransfer: o.interestTransfer}
	var err error
	if req.UpToDate, err = parseDateFlag("up-to", o.upTo); err != nil {
		return req, err
	}
	if req.PostAsOn, err = parseDateFlag("as-on", o.asOn); err != nil {
		return req, err
	}
	return req, nil
}

func main() {
	var opts options
	fs := newFlagSet(&opts)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(fs)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.IsProduction)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	if err := run(ctx, logger, cfg, opts, os.Stdout); err != nil {
		logger.Error("Interest posting failed", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, opts options, out io.Writer) error {
	if err := opts.validate(); err != nil {
		return err
	}
	req, err := opts.postingRequest()
	if err != nil {
		return err
	}
	var businessDate portssvc.BusinessDateSvc
	if d, err := parseDateFlag("business-date", opts.businessDate); err != nil {
		return err
	} else if d != nil {
		businessDate = services.FixedBusinessDate(*d)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return fmt.Errorf("failed to initialize database pool: %w", err)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if !opts.skipMigrations {
		if err := runMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return err
		}
	}

	registry := prometheus.NewRegistry()
	container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), metrics.New(registry), businessDate)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if opts.all {
		report, err := container.SavingsAccount.PostInterestForActiveAccounts(ctx, req, opts.userID)
		if report != nil {
			if encErr := enc.Encode(report); encErr != nil {
				return encErr
			}
		}
		if err != nil {
			return err
		}
		if err := writeMetrics(logger, opts.metricsTextfile, registry); err != nil {
			return err
		}
		if len(report.Failed) > 0 {
			return fmt.Errorf("%d of %d accounts failed", len(report.Failed), report.Processed)
		}
		return nil
	}

	acc, err := container.SavingsAccount.GetSavingsAccount(ctx, opts.accountID)
	if err != nil {
		return err
	}
	currency, err := container.Currency.GetCurrencyByCode(ctx, acc.CurrencyCode)
	if err != nil {
		return err
	}

	if opts.dryRun {
		res, err := container.SavingsAccount.CalculateInterest(ctx, opts.accountID, req)
		if err != nil {
			return err
		}
		return enc.Encode(dto.ToInterestRunResponse(opts.accountID, res, *currency))
	}

	res, err := container.SavingsAccount.PostInterest(ctx, opts.accountID, req, opts.userID)
	if err != nil {
		_ = writeMetrics(logger, opts.metricsTextfile, registry)
		return err
	}
	if err := enc.Encode(dto.ToInterestRunResponse(opts.accountID, res, *currency)); err != nil {
		return err
	}
	return writeMetrics(logger, opts.metricsTextfile, registry)
}

func writeMetrics(logger *slog.Logger, path string, registry *prometheus.Registry) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	logger.Debug("Metrics written", slog.String("path", path))
	return nil
}
