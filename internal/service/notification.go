package service

import (
	"commsafe/internal/api"
	"commsafe/internal/constants"
	"commsafe/internal/domain"
	"commsafe/internal/taxonomy"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

const (
	NotificationTypeWarning  = "warning"
	NotificationTypePositive = "positive"
)

// NotificationService classifies newly recorded votes and records a
// notification for the target, optionally delivering it to an external
// channel. It runs off the vote-submission path.
type NotificationService struct {
	store   NotificationStore
	webhook WebhookSender
	tax     *taxonomy.Config
	logger  zerolog.Logger
}

func NewNotificationService(store NotificationStore, webhook WebhookSender, tax *taxonomy.Config, logger zerolog.Logger) *NotificationService {
	return &NotificationService{store: store, webhook: webhook, tax: tax, logger: logger}
}

// NotifyVote records a notification when the tag is in the positive or
// negative set; tags in neither set trigger nothing. The record is persisted
// before any delivery attempt, and delivery failures are logged only
// (at-most-once semantics).
func (s *NotificationService) NotifyVote(ctx context.Context, targetID, tag, matchID string) error {
	var notifType, message string
	switch {
	case s.tax.IsNegative(tag):
		notifType = NotificationTypeWarning
		message = fmt.Sprintf("You received a %q rating from another player", tag)
	case s.tax.IsPositive(tag):
		notifType = NotificationTypePositive
		message = fmt.Sprintf("You received a %q rating from another player! 🎉", tag)
	default:
		return nil
	}

	notification := &domain.Notification{
		UserID:  targetID,
		Type:    notifType,
		Message: message,
		Metadata: map[string]string{
			"tag":      tag,
			"match_id": matchID,
		},
	}
	if err := s.store.Insert(ctx, notification); err != nil {
		s.logger.Error().Err(err).Str("user_id", targetID).Msg("failed to persist notification")
		return err
	}

	prefs, err := s.store.GetPreferences(ctx, targetID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().Err(err).Str("user_id", targetID).Msg("failed to load notification preferences")
		}
		return nil
	}

	if prefs.DiscordNotifications && prefs.DiscordWebhook != "" {
		color := api.ColorDefault
		switch notifType {
		case NotificationTypePositive:
			color = api.ColorPositive
		case NotificationTypeWarning:
			color = api.ColorWarning
		}

		if err := s.webhook.SendWebhook(ctx, prefs.DiscordWebhook, message, color); err != nil {
			dispatchErr := &domain.DispatchError{Err: err}
			s.logger.Warn().Err(dispatchErr).Str("user_id", targetID).Msg("webhook delivery failed")
		}
	}

	return nil
}

// Preferences returns the stored preferences, or the documented defaults
// when the user has never saved any.
func (s *NotificationService) Preferences(ctx context.Context, userID string) (*domain.NotificationPreferences, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	prefs, err := s.store.GetPreferences(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.NotificationPreferences{
			UserID:            userID,
			NotifyOnToxic:     true,
			NotifyOnPositive:  true,
			NotifyOnThreshold: 10,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *NotificationService) UpdatePreferences(ctx context.Context, prefs *domain.NotificationPreferences) (*domain.NotificationPreferences, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if prefs.UserID == "" {
		return nil, domain.Validationf("user id is required")
	}
	if err := s.store.UpsertPreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *NotificationService) History(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 {
		limit = constants.DefaultNotificationLimit
	}
	return s.store.History(ctx, userID, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID string) (*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.store.MarkRead(ctx, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.store.MarkAllRead(ctx, userID)
}
