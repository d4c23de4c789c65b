package poller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInterval_DoublesPerFailure(t *testing.T) {
	cfg := Config{Base: 3 * time.Second, Max: 60 * time.Second}

	assert.Equal(t, 3000*time.Millisecond, Interval(cfg, 0))
	assert.Equal(t, 6000*time.Millisecond, Interval(cfg, 1))
	assert.Equal(t, 12000*time.Millisecond, Interval(cfg, 2))
	assert.Equal(t, 24000*time.Millisecond, Interval(cfg, 3))
}

func TestInterval_ResetAfterRecovery(t *testing.T) {
	cfg := Config{Base: 3 * time.Second, Max: 60 * time.Second}

	// Three failures back off, then one success zeroes the count and the
	// next round runs at base again.
	assert.Equal(t, 24*time.Second, Interval(cfg, 3))
	assert.Equal(t, 3*time.Second, Interval(cfg, 0))
}

func TestInterval_CapsAtMax(t *testing.T) {
	cfg := Config{Base: 3 * time.Second, Max: 60 * time.Second}

	assert.Equal(t, 48*time.Second, Interval(cfg, 4))
	assert.Equal(t, 60*time.Second, Interval(cfg, 5))
	assert.Equal(t, 60*time.Second, Interval(cfg, 6))
	assert.Equal(t, 60*time.Second, Interval(cfg, 100))
}

func TestInterval_HugeFailureStreakStaysAtMax(t *testing.T) {
	cfg := Config{Base: 3 * time.Second, Max: 60 * time.Second}

	// Far past any realistic shift; must not wrap negative.
	assert.Equal(t, 60*time.Second, Interval(cfg, 1<<30))
}

func TestInterval_ZeroConfigUsesDefaults(t *testing.T) {
	assert.Equal(t, DefaultBase, Interval(Config{}, 0))
	assert.Equal(t, DefaultMax, Interval(Config{}, 64))
}

func TestInterval_NegativeCountTreatedAsHealthy(t *testing.T) {
	cfg := Config{Base: 5 * time.Second, Max: 30 * time.Second}

	assert.Equal(t, 5*time.Second, Interval(cfg, -1))
}
