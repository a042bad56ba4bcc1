package interest_test

import (
	"testing"
	"time"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/core/interest"
	"github.com/SscSPs/savings_servicing/internal/utils/dates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPartition(t *testing.T, got []interest.Interval, start, upTo time.Time) {
	t.Helper()
	require.NotEmpty(t, got)
	assert.Equal(t, start, got[0].Start)
	assert.Equal(t, upTo, got[len(got)-1].End)
	for i := 1; i < len(got); i++ {
		assert.Equal(t, dates.AddDays(got[i-1].End, 1), got[i].Start, "gap or overlap at %d", i)
	}
	for _, iv := range got {
		assert.False(t, iv.End.Before(iv.Start), iv.String())
	}
}

func TestSegment_MonthlyPartition(t *testing.T) {
	start, upTo := dates.Date(2024, 1, 10), dates.Date(2024, 4, 15)
	got := interest.Segment(start, upTo, domain.Monthly, time.January, nil)

	assertPartition(t, got, start, upTo)
	require.Len(t, got, 4)
	assert.Equal(t, dates.Date(2024, 1, 31), got[0].End)
	assert.Equal(t, dates.Date(2024, 2, 29), got[1].End)
	assert.False(t, got[2].Partial)
	assert.True(t, got[3].Partial)
}

func TestSegment_EndsOnBoundary(t *testing.T) {
	got := interest.Segment(dates.Date(2024, 1, 1), dates.Date(2024, 6, 30), domain.Quarterly, time.January, nil)
	require.Len(t, got, 2)
	assert.False(t, got[1].Partial)
}

func TestSegment_FiscalYearAnchoring(t *testing.T) {
	got := interest.Segment(dates.Date(2024, 1, 1), dates.Date(2024, 12, 31), domain.BiAnnual, time.April, nil)

	assertPartition(t, got, dates.Date(2024, 1, 1), dates.Date(2024, 12, 31))
	require.Len(t, got, 3)
	assert.Equal(t, dates.Date(2024, 3, 31), got[0].End)
	assert.Equal(t, dates.Date(2024, 9, 30), got[1].End)
	assert.True(t, got[2].Partial)
}

func TestSegment_ManualEnds(t *testing.T) {
	start, upTo := dates.Date(2024, 1, 1), dates.Date(2024, 2, 29)
	manual := []time.Time{dates.Date(2024, 1, 15), dates.Date(2024, 1, 15), dates.Date(2024, 2, 29)}
	got := interest.Segment(start, upTo, domain.Monthly, time.January, manual)

	assertPartition(t, got, start, upTo)
	require.Len(t, got, 3)
	assert.Equal(t, dates.Date(2024, 1, 15), got[0].End)
	assert.True(t, got[0].UserPosting)
	assert.Equal(t, dates.Date(2024, 1, 31), got[1].End)
	assert.False(t, got[1].UserPosting)
	assert.True(t, got[2].UserPosting)
	assert.False(t, got[2].Partial)
}

func TestSegment_ManualEndAtUpToIsNotPartial(t *testing.T) {
	got := interest.Segment(dates.Date(2024, 1, 1), dates.Date(2024, 1, 20), domain.Monthly, time.January, []time.Time{dates.Date(2024, 1, 20)})
	require.Len(t, got, 1)
	assert.False(t, got[0].Partial)
	assert.True(t, got[0].UserPosting)
}

func TestSegment_Empty(t *testing.T) {
	assert.Nil(t, interest.Segment(dates.Date(2024, 2, 1), dates.Date(2024, 1, 1), domain.Monthly, time.January, nil))
	assert.Nil(t, interest.Segment(time.Time{}, dates.Date(2024, 1, 1), domain.Monthly, time.January, nil))
}

func TestPolicy_PostingDate(t *testing.T) {
	p := interest.DefaultPolicy()
	end := dates.Date(2024, 1, 31)
	assert.Equal(t, end, p.PostingDate(end))
	assert.Equal(t, end, p.PeriodEndFor(end))

	p.PostAtPeriodEnd = false
	assert.Equal(t, dates.Date(2024, 2, 1), p.PostingDate(end))
	assert.Equal(t, end, p.PeriodEndFor(dates.Date(2024, 2, 1)))
}
