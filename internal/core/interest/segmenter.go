package interest

import (
	"sort"
	"time"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/utils/dates"
)

// Interval is one posting period produced by Segment.
type Interval struct {
	dates.Interval
	// Partial is set when the interval was cut short by upToDate rather than
	// ending on a natural or manual boundary. Partial intervals are never posted.
	Partial bool
	// UserPosting is set when a manual posting date closed the interval.
	UserPosting bool
}

// Segment partitions [start, upTo] into contiguous posting intervals. Natural
// boundaries follow freq anchored to the fiscal year start month; each date in
// manualEnds closes an interval on that day.
func Segment(start, upTo time.Time, freq domain.PeriodFrequency, fiscalYearStart time.Month, manualEnds []time.Time) []Interval {
	if start.IsZero() || upTo.IsZero() {
		return nil
	}
	start, upTo = dates.Normalize(start), dates.Normalize(upTo)
	if upTo.Before(start) {
		return nil
	}

	manual := make([]time.Time, 0, len(manualEnds))
	isManual := make(map[time.Time]bool, len(manualEnds))
	for _, m := range manualEnds {
		m = dates.Normalize(m)
		if isManual[m] {
			continue
		}
		isManual[m] = true
		manual = append(manual, m)
	}
	sort.Slice(manual, func(i, j int) bool { return manual[i].Before(manual[j]) })

	var out []Interval
	for s := start; !s.After(upTo); {
		end := freq.PeriodEnd(s, fiscalYearStart)
		for _, m := range manual {
			if !m.Before(s) && m.Before(end) {
				end = m
				break
			}
		}
		partial := false
		if end.After(upTo) {
			end = upTo
			partial = !isManual[end]
		}
		out = append(out, Interval{
			Interval:    dates.Interval{Start: s, End: end},
			Partial:     partial,
			UserPosting: isManual[end],
		})
		s = dates.AddDays(end, 1)
	}
	return out
}
