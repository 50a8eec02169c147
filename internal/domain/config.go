package domain

import "time"

// Config represents the main application configuration.
type Config struct {
	Server        ServerConfig    `mapstructure:"server"`
	Engine        EngineConfig    `mapstructure:"engine"`
	KnowledgeBase KnowledgeConfig `mapstructure:"knowledge_base"`
	Database      DatabaseConfig  `mapstructure:"database"`
	Logging       LoggingConfig   `mapstructure:"logging"`
	RateLimit     RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// EngineConfig carries the stopping thresholds and selector tuning for the
// reasoning engine. Thresholds are policy, not code, so they live in config.
type EngineConfig struct {
	// PatternThreshold is the minimum fired-pattern confidence that concludes
	// a case (stopping criterion 1).
	PatternThreshold float64 `mapstructure:"pattern_threshold"`
	// ConfidenceThreshold is the leading-category probability that concludes
	// a case (stopping criterion 2).
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	// EntropyThreshold is the residual entropy, in bits, below which a case
	// concludes (stopping criterion 3).
	EntropyThreshold float64 `mapstructure:"entropy_threshold"`
	// MinQuestions suppresses stopping criteria 1-3 until this many questions
	// have been answered. Zero disables the gate.
	MinQuestions int `mapstructure:"min_questions"`
	// GainCacheSize bounds the LRU cache of per-question information gains.
	GainCacheSize int `mapstructure:"gain_cache_size"`
}

// KnowledgeConfig selects the knowledge base to load.
type KnowledgeConfig struct {
	// Path points at a YAML knowledge base. Empty selects the built-in IEI
	// knowledge base.
	Path string `mapstructure:"path"`
}

// DatabaseConfig represents the SQLite case store configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimitConfig represents per-client API rate limiting.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}
