package service

import (
	"commsafe/internal/api"
	"commsafe/internal/domain"
	"context"
	"time"
)

// Store interfaces are defined on the consumer side; the repository package
// satisfies them and the fx module binds the two together.

type VoteStore interface {
	Insert(ctx context.Context, vote *domain.Vote) error
	Exists(ctx context.Context, reporterID, targetID, matchID string) (bool, error)
	ListByTarget(ctx context.Context, targetID string) ([]domain.Vote, error)
	ListByReporter(ctx context.Context, reporterID string) ([]domain.Vote, error)
	ListSince(ctx context.Context, cutoff time.Time) ([]domain.Vote, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Vote, error)
	ListPositiveByReporter(ctx context.Context, reporterID string, tags []string) ([]domain.Vote, error)
	DeleteByID(ctx context.Context, voteID string) error
	Count(ctx context.Context) (int, error)
	CountSince(ctx context.Context, cutoff time.Time) (int, error)
}

type UserStore interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	GetBySteamID(ctx context.Context, steamID string) (*domain.User, error)
	GetByFaceitID(ctx context.Context, faceitID string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Count(ctx context.Context) (int, error)
}

type NotificationStore interface {
	GetPreferences(ctx context.Context, userID string) (*domain.NotificationPreferences, error)
	UpsertPreferences(ctx context.Context, prefs *domain.NotificationPreferences) error
	Insert(ctx context.Context, n *domain.Notification) error
	History(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, notificationID string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
}

type SteamAPI interface {
	ResolveVanityURL(ctx context.Context, vanity string) (string, error)
	GetPlayerSummary(ctx context.Context, steamID string) (*api.PlayerSummary, error)
}

type WebhookSender interface {
	SendWebhook(ctx context.Context, webhookURL, message string, color int) error
}

// Notifier decouples vote submission from notification dispatch.
type Notifier interface {
	NotifyVote(ctx context.Context, targetID, tag, matchID string) error
}
