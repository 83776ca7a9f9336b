// Package streak derives run-length and vitality indicators from the
// tapering ledger.
package streak

import "github.com/vapeless/vapeless/internal/domain/model"

// Default number of calendar days covered by the vitality indicator.
const defaultVitalityWindow = 3

// Current scans the ledger from day 1 forward, incrementing a counter on
// each passing day and resetting it to zero on any failing day. The
// returned value is the counter after the final day: the length of the
// success run ending today. An empty ledger yields 0.
func Current(history []model.DailyRecord) int {
	run := 0
	for i := range history {
		if history[i].Success {
			run++
		} else {
			run = 0
		}
	}
	return run
}

// Vitality reports one boolean per calendar day for the trailing window
// ending today, true meaning that day passed its budget.
type Vitality struct {
	window       int
	missingAlive bool
}

// Option applies a configuration option to the Vitality calculator.
type Option func(*Vitality)

// WithWindow sets the number of trailing days covered.
func WithWindow(days int) Option {
	return func(v *Vitality) {
		if days > 0 {
			v.window = days
		}
	}
}

// WithMissingAsFailed makes days with no ledger record count as failed.
// The product default is the lenient one, where no data means a full
// life, but that default can mask genuinely missing data, so it is
// explicit and overridable here rather than silently baked in.
func WithMissingAsFailed() Option {
	return func(v *Vitality) {
		v.missingAlive = false
	}
}

// NewVitality creates a Vitality calculator with configuration options.
func NewVitality(opts ...Option) Vitality {
	v := Vitality{
		window:       defaultVitalityWindow,
		missingAlive: true,
	}
	for _, opt := range opts {
		opt(&v)
	}
	return v
}

// Window returns the configured window length.
func (v Vitality) Window() int {
	return v.window
}

// Lives returns the trailing-window booleans, oldest first. Days before
// the plan start, or past the ledger's end, take the configured default.
func (v Vitality) Lives(history []model.DailyRecord) []bool {
	lives := make([]bool, v.window)
	for i := range lives {
		lives[i] = v.missingAlive
	}
	// Map the last window ledger days onto the tail of the result.
	for i := 0; i < v.window && i < len(history); i++ {
		rec := history[len(history)-1-i]
		lives[v.window-1-i] = rec.Success
	}
	return lives
}
