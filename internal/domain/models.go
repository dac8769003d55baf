package domain

import (
	"time"
)

type User struct {
	ID        string
	SteamID   string // empty for users known only by their Faceit identity
	FaceitID  string
	Username  string
	Email     string
	CreatedAt time.Time
}

type Vote struct {
	ID         string
	ReporterID string
	TargetID   string
	MatchID    string // empty when the vote is not tied to a specific match
	Tag        string
	Comment    string
	CreatedAt  time.Time
}

// Reputation is recomputed on every read over the rolling window; it is
// never persisted.
type Reputation struct {
	Score   *float64 // nil when no votes fall inside the window
	Warning string   // empty when no warning rule matched
	Tags    []string // distinct tags, in first-encounter order
}

type NotificationPreferences struct {
	UserID               string
	Email                string
	DiscordWebhook       string
	EmailNotifications   bool
	DiscordNotifications bool
	NotifyOnToxic        bool
	NotifyOnPositive     bool
	NotifyOnThreshold    int
	UpdatedAt            time.Time
}

type Notification struct {
	ID        string
	UserID    string
	Type      string // "warning" or "positive"
	Message   string
	Metadata  map[string]string
	Read      bool
	CreatedAt time.Time
}
