package config

import (
	"os"
	"path/filepath"
	"testing"

	"wainbox/internal/constants"
	"wainbox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, `{
		"server": {"port": 9090},
		"database": {"path": "/tmp/wainbox.db"},
		"media": {"cache_dir": "/tmp/media"},
		"chat": {"deliveredDelayMs": 500, "readDelayMs": 2000},
		"log_level": "debug"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/wainbox.db", cfg.Database.Path)
	assert.Equal(t, 500, cfg.Chat.DeliveredDelayMs)
	assert.Equal(t, 2000, cfg.Chat.ReadDelayMs)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `{
		"database": {"path": "/tmp/wainbox.db"},
		"media": {"cache_dir": "/tmp/media"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, constants.DefaultDeliveredDelayMs, cfg.Chat.DeliveredDelayMs)
	assert.Equal(t, constants.DefaultReadDelayMs, cfg.Chat.ReadDelayMs)
	assert.Equal(t, constants.DefaultTypingIntervalSec, cfg.Chat.TypingIntervalSec)
	assert.Equal(t, constants.DefaultRetentionDays, cfg.RetentionDays)
	assert.Equal(t, constants.DefaultMaxImageSizeMB, cfg.Media.MaxSizeMB.Image)
	assert.Equal(t, constants.DefaultImageTypes, cfg.Media.AllowedTypes.Image)
	assert.Equal(t, "wainbox", cfg.Tracing.ServiceName)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_MissingDatabasePath(t *testing.T) {
	path := writeConfig(t, `{"media": {"cache_dir": "/tmp/media"}}`)
	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrMissingDBPath)
}

func TestLoadConfig_MissingMediaDir(t *testing.T) {
	path := writeConfig(t, `{"database": {"path": "/tmp/wainbox.db"}}`)
	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrMissingMediaDir)
}

func TestLoadConfig_DelayOrder(t *testing.T) {
	path := writeConfig(t, `{
		"database": {"path": "/tmp/wainbox.db"},
		"media": {"cache_dir": "/tmp/media"},
		"chat": {"deliveredDelayMs": 3000, "readDelayMs": 1000}
	}`)

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrDeliveryDelayOrder)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("WAINBOX_DB_PATH", "/override/db.sqlite")
	t.Setenv("WAINBOX_MEDIA_DIR", "/override/media")
	t.Setenv("WAINBOX_SEED_PATH", "/override/seed.json")
	t.Setenv("PORT", "7777")
	t.Setenv("WAINBOX_LOG_LEVEL", "warn")

	path := writeConfig(t, `{
		"server": {"port": 9090},
		"database": {"path": "/tmp/wainbox.db"},
		"media": {"cache_dir": "/tmp/media"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/override/db.sqlite", cfg.Database.Path)
	assert.Equal(t, "/override/media", cfg.Media.CacheDir)
	assert.Equal(t, "/override/seed.json", cfg.Directory.SeedPath)
	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_InvalidPortEnvIgnored(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	path := writeConfig(t, `{
		"server": {"port": 9090},
		"database": {"path": "/tmp/wainbox.db"},
		"media": {"cache_dir": "/tmp/media"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestValidate_Nil(t *testing.T) {
	assert.Error(t, Validate(nil))
}

func TestValidate_Programmatic(t *testing.T) {
	cfg := &models.Config{
		Database: models.DatabaseConfig{Path: "/tmp/db"},
		Media:    models.MediaConfig{CacheDir: "/tmp/media"},
	}
	require.NoError(t, Validate(cfg))
	assert.Equal(t, constants.DefaultServerPort, cfg.Server.Port)
}
