package models

// Config holds the application configuration.
type Config struct {
	Server        ServerConfig    `json:"server"`
	Database      DatabaseConfig  `json:"database"`
	Media         MediaConfig     `json:"media"`
	Chat          ChatConfig      `json:"chat"`
	Directory     DirectoryConfig `json:"directory"`
	Tracing       TracingConfig   `json:"tracing"`
	LogLevel      string          `json:"log_level"`
	RetentionDays int             `json:"retentionDays"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int `json:"port"`
	ReadTimeoutSec  int `json:"readTimeoutSec"`
	WriteTimeoutSec int `json:"writeTimeoutSec"`
	IdleTimeoutSec  int `json:"idleTimeoutSec"`
}

// DatabaseConfig holds database related configuration.
type DatabaseConfig struct {
	Path string `json:"path"`
}

// MediaConfig holds attachment handling configuration.
type MediaConfig struct {
	CacheDir     string            `json:"cache_dir"`
	MaxSizeMB    MediaSizeLimits   `json:"maxSizeMB"`
	AllowedTypes MediaAllowedTypes `json:"allowedTypes"`
}

// MediaSizeLimits defines size limits for different media types in MB.
type MediaSizeLimits struct {
	Image    int `json:"image"`
	Video    int `json:"video"`
	Audio    int `json:"audio"`
	Document int `json:"document"`
	Voice    int `json:"voice"`
}

// MediaAllowedTypes defines allowed file extensions per media category.
type MediaAllowedTypes struct {
	Image    []string `json:"image"`
	Video    []string `json:"video"`
	Audio    []string `json:"audio"`
	Document []string `json:"document"`
}

// ChatConfig holds conversation store and simulation settings.
type ChatConfig struct {
	// DeliveredDelayMs and ReadDelayMs control the simulated delivery
	// confirmation timers. ReadDelayMs must be greater than DeliveredDelayMs.
	DeliveredDelayMs  int  `json:"deliveredDelayMs"`
	ReadDelayMs       int  `json:"readDelayMs"`
	TypingEnabled     bool `json:"typingEnabled"`
	TypingIntervalSec int  `json:"typingIntervalSec"`
}

// DirectoryConfig holds contact seed and cache settings.
type DirectoryConfig struct {
	SeedPath          string `json:"seed_path"`
	ContactCacheHours int    `json:"contactCacheHours"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	ServiceName    string  `json:"service_name"`
	ServiceVersion string  `json:"service_version"`
	Environment    string  `json:"environment"`
	OTLPEndpoint   string  `json:"otlp_endpoint"`
	SampleRate     float64 `json:"sample_rate"`
	Enabled        bool    `json:"enabled"`
	UseStdout      bool    `json:"use_stdout"`
}

// ConfigError represents a configuration validation failure.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}
