package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second

	// Outbound notification delivery is fire-and-forget and must finish
	// within this bound.
	NotifyTimeout = 10 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultLeaderboardLimit  = 50
	DefaultRecentVotesLimit  = 50
	DefaultNotificationLimit = 50
	TopTagsLimit             = 5

	MaxCommentLength    = 500
	MaxIdentifierLength = 100
)
