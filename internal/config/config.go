// Package config defines service configuration structures and loading
// hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers defaults, optional YAML file and env vars.
// - External errors are wrapped via this package's sentinels.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseDSN is the SQLite data source for the event store.
	DatabaseDSN string `koanf:"database_dsn"`

	// Timezone names the location used for day-boundary math, e.g.
	// "Europe/Berlin". Empty means the process-local zone.
	Timezone string `koanf:"timezone"`

	// QueueSize bounds the in-memory evaluation queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of achievement evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the idempotency cache for event IDs.
	DedupeSize int `koanf:"dedupe_size"`

	// VitalityWindowDays sets the trailing window of the lives
	// indicator.
	VitalityWindowDays int `koanf:"vitality_window_days"`

	// VitalityMissingAsFailed flips the lenient "no data means alive"
	// default so days without a ledger record count as failed.
	VitalityMissingAsFailed bool `koanf:"vitality_missing_as_failed"`

	// CoachAPIKey authorizes calls to the generative-language API.
	// Empty disables remote generation; the coach serves fallback text.
	CoachAPIKey string `koanf:"coach_api_key"`

	// CoachModel selects the generation model.
	CoachModel string `koanf:"coach_model"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		DatabaseDSN:        "vapeless.db",
		QueueSize:          10_000,
		WorkerCount:        4,
		DedupeSize:         50_000,
		VitalityWindowDays: 3,
		CoachModel:         "gemini-3-flash-preview",
	}
}
