package ui

import (
	"time"
)

type Timer struct {
	startTime time.Time
	now       func() time.Time
}

func (t *Timer) Start() {
	if t.now == nil {
		t.now = time.Now
	}
	t.startTime = t.now()
}

func (t *Timer) Elapsed() time.Duration {
	if t.startTime.IsZero() {
		return 0
	}

	return t.now().Sub(t.startTime).Round(time.Second)
}

// Estimated extrapolates the time left from the average time per record so far.
func (t *Timer) Estimated(recordCount int, deletedCount int) string {
	if deletedCount <= 0 || t.startTime.IsZero() {
		return "-"
	}

	diff := t.now().Sub(t.startTime)

	perRecord := diff / time.Duration(deletedCount)
	remainCount := recordCount - deletedCount
	if remainCount <= 0 {
		return "0s"
	}
	estimateDuration := perRecord * time.Duration(remainCount)

	return estimateDuration.Round(time.Second).String()
}
