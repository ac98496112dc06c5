package commission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowSameDayRelease(t *testing.T) {
	releasedAt := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	w := NewWindow(&releasedAt, periodEnd, time.UTC)

	assert.False(t, w.Contains(releasedAt.Add(-time.Minute)), "before release instant")
	assert.False(t, w.Contains(releasedAt), "release instant is exclusive")
	assert.True(t, w.Contains(releasedAt.Add(time.Minute)), "same day after release")
	assert.True(t, w.Contains(time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestWindowWithoutRelease(t *testing.T) {
	w := NewWindow(nil, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), time.UTC)
	assert.True(t, w.Contains(time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestToLinesSkipsIncompleteAndTotals(t *testing.T) {
	done := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	lines := ToLines([]WorkItem{
		{ID: "w1", ServiceTitle: "Haircut", CommissionValue: 150, CompletedAt: &done},
		{ID: "w2", ServiceTitle: "Massage", CommissionValue: 300},
		{ID: "w3", ServiceTitle: "Facial", CommissionValue: 250, CompletedAt: &done},
	})

	assert.Len(t, lines, 2)
	assert.Equal(t, int64(400), Total(lines))
	assert.Equal(t, "w3", lines[1].WorkItemID)
}
