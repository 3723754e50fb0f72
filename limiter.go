package ddbclear

import (
	"context"
	"sync"
	"time"
)

const WRITE_INTERVAL = 1 * time.Second

// unitLimiter hands out at most limit write units per interval. A batch
// larger than the whole budget still runs, alone, in a fresh interval.
type unitLimiter struct {
	mu          sync.Mutex
	limit       int
	interval    time.Duration
	used        int
	windowStart time.Time
	now         func() time.Time
}

func newUnitLimiter(limit int, interval time.Duration) *unitLimiter {
	if interval <= 0 {
		interval = WRITE_INTERVAL
	}

	return &unitLimiter{
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

// reserve takes units from the current interval, or returns how long to wait
// before asking again.
func (l *unitLimiter) reserve(units int) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.windowStart.IsZero() || now.Sub(l.windowStart) >= l.interval {
		l.windowStart = now
		l.used = 0
	}

	if l.used == 0 || l.used+units <= l.limit {
		l.used += units
		return 0
	}

	return l.windowStart.Add(l.interval).Sub(now)
}

// wait blocks until units are reserved. It gives up when stop is closed or
// ctx is done.
func (l *unitLimiter) wait(ctx context.Context, stop <-chan struct{}, units int) bool {
	for {
		d := l.reserve(units)
		if d <= 0 {
			return true
		}

		select {
		case <-time.After(d):
		case <-stop:
			return false
		case <-ctx.Done():
			return false
		}
	}
}

// writeUnits estimates the write units deleting keys consumes. Deletes are
// charged by the size of the stored item, which is at least its key, so
// this is a lower bound of one unit per key.
func writeUnits(keys []Key) int {
	units := 0
	for _, key := range keys {
		result, err := GetItemSize(Item(key))
		if err != nil || result.WriteUnit < 1 {
			units += 1
			continue
		}
		units += result.WriteUnit
	}

	return units
}
