package constants

// Default server configuration values
const (
	DefaultServerPort            = 8082
	DefaultServerReadTimeoutSec  = 15
	DefaultServerWriteTimeoutSec = 15
	DefaultServerIdleTimeoutSec  = 60
	DefaultGracefulShutdownSec   = 30
	DefaultCleanupIntervalHours  = 24
	DefaultRetentionDays         = 30
	DefaultContactCacheHours     = 24
)

// Default delivery simulation delays. The read delay must stay strictly
// greater than the delivered delay so a message never reads before it
// delivers; config validation enforces this for overrides.
const (
	DefaultDeliveredDelayMs  = 1000
	DefaultReadDelayMs       = 3000
	DefaultTypingIntervalSec = 8
)

// Default media configuration values
const (
	DefaultMaxImageSizeMB    = 5
	DefaultMaxVideoSizeMB    = 100
	DefaultMaxAudioSizeMB    = 16
	DefaultMaxDocumentSizeMB = 100
	DefaultMaxVoiceSizeMB    = 16
)

// Default database retry values
const (
	DefaultDatabaseRetryAttempts = 3
	DefaultRetryBackoffMs        = 1000
	DefaultMaxBackoffMs          = 60000
)

// Display settings
const (
	// MaxVisibleTags caps how many tags a conversation row shows before
	// collapsing the remainder into a "+N" badge.
	MaxVisibleTags = 2

	DefaultPhoneMaskLength = 4
)

// Encryption salts for the contact cache
const (
	EncryptionSalt       = "wainbox-contact-cache-salt-v1"
	EncryptionLookupSalt = "wainbox-lookup-salt-v1"
)
