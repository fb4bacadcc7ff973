// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults and Load(ctx) to layer
//   sources on top of it.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir holds generated artifacts (QR images, file-backed store keys).
	DataDir string `koanf:"data_dir"`

	// StoreBackend selects the key-value backend: file, memory or redis.
	StoreBackend string `koanf:"store_backend"`

	// RedisAddr is the Redis address when store_backend is redis.
	RedisAddr string `koanf:"redis_addr"`

	// RedisDB is the Redis database index when store_backend is redis.
	RedisDB int `koanf:"redis_db"`

	// RewardPoints granted for a correct segregation verdict.
	RewardPoints int `koanf:"reward_points"`

	// FinePoints deducted for an incorrect segregation verdict.
	FinePoints int `koanf:"fine_points"`

	// CorrectProbability is the chance of a correct verdict per session.
	CorrectProbability float64 `koanf:"correct_probability"`

	// RecordingTicks is the countdown length of the recording phase.
	RecordingTicks int `koanf:"recording_ticks"`

	// TickIntervalMS is the wall-clock length of one countdown tick.
	// The demo runs at 100ms per tick; 1000 makes ticks real seconds.
	TickIntervalMS int `koanf:"tick_interval_ms"`

	// Processing step durations, in order of execution.
	FrameExtractionMS int `koanf:"frame_extraction_ms"`
	RemoteAnalysisMS  int `koanf:"remote_analysis_ms"`
	ClassificationMS  int `koanf:"classification_ms"`

	// ResultDisplayMS is how long a finished result stays on screen before
	// the session resets to idle.
	ResultDisplayMS int `koanf:"result_display_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8080",
		DataDir:            "data",
		StoreBackend:       "file",
		RedisAddr:          "localhost:6379",
		RedisDB:            0,
		RewardPoints:       10,
		FinePoints:         5,
		CorrectProbability: 0.7,
		RecordingTicks:     90,
		TickIntervalMS:     100,
		FrameExtractionMS:  2000,
		RemoteAnalysisMS:   3000,
		ClassificationMS:   2000,
		ResultDisplayMS:    3000,
	}
}
