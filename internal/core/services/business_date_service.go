package services

import (
	"context"
	"time"

	portssvc "github.com/SscSPs/savings_servicing/internal/core/ports/services"
	"github.com/SscSPs/savings_servicing/internal/utils/dates"
)

type businessDateService struct {
	loc *time.Location
	now func() time.Time
}

// NewBusinessDateService returns the calendar day of the wall clock in loc.
// A nil loc means UTC.
func NewBusinessDateService(loc *time.Location, now func() time.Time) portssvc.BusinessDateSvc {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &businessDateService{loc: loc, now: now}
}

func (s *businessDateService) Today(_ context.Context) time.Time {
	return dates.Normalize(s.now().In(s.loc))
}

// fixedBusinessDate pins the business date, used for as-of runs.
type fixedBusinessDate time.Time

// FixedBusinessDate returns a BusinessDateSvc that always reports date.
func FixedBusinessDate(date time.Time) portssvc.BusinessDateSvc {
	return fixedBusinessDate(dates.Normalize(date))
}

func (d fixedBusinessDate) Today(_ context.Context) time.Time {
	return time.Time(d)
}
