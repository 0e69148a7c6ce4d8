package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"wainbox/internal/constants"
	"wainbox/internal/models"
)

var (
	ErrMissingDBPath      = models.ConfigError{Message: "missing database path"}
	ErrMissingMediaDir    = models.ConfigError{Message: "missing media cache directory"}
	ErrDeliveryDelayOrder = models.ConfigError{Message: "readDelayMs must be greater than deliveredDelayMs"}
)

// LoadConfig reads the JSON configuration file at path, validates it,
// fills defaults, and applies environment overrides.
func LoadConfig(path string) (*models.Config, error) {
	file, err := os.ReadFile(path) // #nosec G304 - config path comes from the -config flag
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	applyEnvironmentOverrides(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validate(c *models.Config) error {
	if c.Database.Path == "" {
		return ErrMissingDBPath
	}
	if c.Media.CacheDir == "" {
		return ErrMissingMediaDir
	}

	if c.Server.Port <= 0 {
		c.Server.Port = constants.DefaultServerPort
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = constants.DefaultServerReadTimeoutSec
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = constants.DefaultServerWriteTimeoutSec
	}
	if c.Server.IdleTimeoutSec <= 0 {
		c.Server.IdleTimeoutSec = constants.DefaultServerIdleTimeoutSec
	}

	// Delivery simulation delays. The read confirmation must always trail
	// the delivered confirmation.
	if c.Chat.DeliveredDelayMs <= 0 {
		c.Chat.DeliveredDelayMs = constants.DefaultDeliveredDelayMs
	}
	if c.Chat.ReadDelayMs <= 0 {
		c.Chat.ReadDelayMs = constants.DefaultReadDelayMs
	}
	if c.Chat.ReadDelayMs <= c.Chat.DeliveredDelayMs {
		return ErrDeliveryDelayOrder
	}
	if c.Chat.TypingIntervalSec <= 0 {
		c.Chat.TypingIntervalSec = constants.DefaultTypingIntervalSec
	}

	if c.Media.MaxSizeMB.Image == 0 {
		c.Media.MaxSizeMB.Image = constants.DefaultMaxImageSizeMB
	}
	if c.Media.MaxSizeMB.Video == 0 {
		c.Media.MaxSizeMB.Video = constants.DefaultMaxVideoSizeMB
	}
	if c.Media.MaxSizeMB.Audio == 0 {
		c.Media.MaxSizeMB.Audio = constants.DefaultMaxAudioSizeMB
	}
	if c.Media.MaxSizeMB.Document == 0 {
		c.Media.MaxSizeMB.Document = constants.DefaultMaxDocumentSizeMB
	}
	if c.Media.MaxSizeMB.Voice == 0 {
		c.Media.MaxSizeMB.Voice = constants.DefaultMaxVoiceSizeMB
	}

	if len(c.Media.AllowedTypes.Image) == 0 {
		c.Media.AllowedTypes.Image = constants.DefaultImageTypes
	}
	if len(c.Media.AllowedTypes.Video) == 0 {
		c.Media.AllowedTypes.Video = constants.DefaultVideoTypes
	}
	if len(c.Media.AllowedTypes.Audio) == 0 {
		c.Media.AllowedTypes.Audio = constants.DefaultAudioTypes
	}
	if len(c.Media.AllowedTypes.Document) == 0 {
		c.Media.AllowedTypes.Document = constants.DefaultDocumentTypes
	}

	if c.Directory.ContactCacheHours <= 0 {
		c.Directory.ContactCacheHours = constants.DefaultContactCacheHours
	}
	if c.RetentionDays <= 0 {
		c.RetentionDays = constants.DefaultRetentionDays
	}

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "wainbox"
	}
	if c.Tracing.SampleRate <= 0 {
		c.Tracing.SampleRate = 0.1
	}

	return nil
}

func applyEnvironmentOverrides(c *models.Config) {
	if path := os.Getenv("WAINBOX_DB_PATH"); path != "" {
		c.Database.Path = path
	}
	if dir := os.Getenv("WAINBOX_MEDIA_DIR"); dir != "" {
		c.Media.CacheDir = dir
	}
	if seed := os.Getenv("WAINBOX_SEED_PATH"); seed != "" {
		c.Directory.SeedPath = seed
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			c.Server.Port = p
		}
	}
	if level := os.Getenv("WAINBOX_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
}

// Validate re-runs validation for an already constructed config.
// Used by tests and by callers constructing configs programmatically.
func Validate(c *models.Config) error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	return validate(c)
}
