// Package poller computes the auto-refresh cadence. The shell re-arms a
// fresh timer after every poll round; nothing here resumes a paused one.
package poller

import "time"

const (
	DefaultBase = 3 * time.Second
	DefaultMax  = 60 * time.Second

	// maxShift clamps the doubling so large failure streaks cannot
	// overflow the duration before the ceiling applies.
	maxShift = 16
)

type Config struct {
	// Base is the healthy-state interval between refreshes.
	Base time.Duration
	// Max caps the backed-off interval.
	Max time.Duration
}

func (c Config) base() time.Duration {
	if c.Base > 0 {
		return c.Base
	}
	return DefaultBase
}

func (c Config) max() time.Duration {
	if c.Max > 0 {
		return c.Max
	}
	return DefaultMax
}

// Interval is the delay before the next poll after errorCount consecutive
// failures: base doubled per failure, capped at max. A recovery resets
// errorCount to zero and with it the interval to base.
func Interval(cfg Config, errorCount int) time.Duration {
	base, max := cfg.base(), cfg.max()
	if errorCount <= 0 {
		return base
	}
	shift := errorCount
	if shift > maxShift {
		shift = maxShift
	}
	d := base << uint(shift)
	if d <= 0 || d > max {
		return max
	}
	return d
}
