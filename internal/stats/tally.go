package stats

import (
	"maps"

	"go.uber.org/zap"
)

// Statistic names used as tally keys
const (
	StatMonthlyReading  = "monthly_reading"
	StatMonthlyPages    = "monthly_pages"
	StatReadingTime     = "reading_time"
	StatRatingHeatmap   = "rating_heatmap"
	StatCalendar        = "calendar"
	StatNetworkActivity = "network_activity"
)

// Tally counts the rows each statistic had to skip. A nil *Tally discards
// everything, so aggregation functions can be called without one.
type Tally struct {
	logger  *zap.Logger
	skipped map[string]int
}

// NewTally creates a tally that logs every skipped row at debug level
func NewTally(logger *zap.Logger) *Tally {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tally{
		logger:  logger,
		skipped: make(map[string]int),
	}
}

// Skip records that stat excluded one row
func (t *Tally) Skip(stat, reason string, fields ...zap.Field) {
	if t == nil {
		return
	}
	t.skipped[stat]++
	t.logger.Debug("Skipped row",
		append([]zap.Field{zap.String("stat", stat), zap.String("reason", reason)}, fields...)...,
	)
}

// Skipped returns a copy of the per-statistic skip counts
func (t *Tally) Skipped() map[string]int {
	if t == nil {
		return map[string]int{}
	}
	return maps.Clone(t.skipped)
}

// Total returns the number of skipped rows across all statistics
func (t *Tally) Total() int {
	if t == nil {
		return 0
	}
	total := 0
	for _, n := range t.skipped {
		total += n
	}
	return total
}
