package repository

import (
	"commsafe/internal/domain"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type NotificationRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewNotificationRepository(sqlDB *sql.DB, logger zerolog.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *NotificationRepository) GetPreferences(ctx context.Context, userID string) (*domain.NotificationPreferences, error) {
	var p domain.NotificationPreferences
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, email, discord_webhook, email_notifications, discord_notifications,
		        notify_on_toxic, notify_on_positive, notify_on_threshold, updated_at
		 FROM notification_preferences WHERE user_id = ?`,
		userID,
	).Scan(&p.UserID, &p.Email, &p.DiscordWebhook, &p.EmailNotifications, &p.DiscordNotifications,
		&p.NotifyOnToxic, &p.NotifyOnPositive, &p.NotifyOnThreshold, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewStorageError("get notification preferences", err)
	}
	return &p, nil
}

func (r *NotificationRepository) UpsertPreferences(ctx context.Context, prefs *domain.NotificationPreferences) error {
	prefs.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notification_preferences
		   (user_id, email, discord_webhook, email_notifications, discord_notifications,
		    notify_on_toxic, notify_on_positive, notify_on_threshold, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		   email = excluded.email,
		   discord_webhook = excluded.discord_webhook,
		   email_notifications = excluded.email_notifications,
		   discord_notifications = excluded.discord_notifications,
		   notify_on_toxic = excluded.notify_on_toxic,
		   notify_on_positive = excluded.notify_on_positive,
		   notify_on_threshold = excluded.notify_on_threshold,
		   updated_at = excluded.updated_at`,
		prefs.UserID, prefs.Email, prefs.DiscordWebhook, prefs.EmailNotifications, prefs.DiscordNotifications,
		prefs.NotifyOnToxic, prefs.NotifyOnPositive, prefs.NotifyOnThreshold, prefs.UpdatedAt,
	)
	if err != nil {
		return domain.NewStorageError("upsert notification preferences", err)
	}
	return nil
}

// Insert persists a notification record regardless of whether outbound
// delivery later succeeds.
func (r *NotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return domain.NewStorageError("generate notification id", err)
		}
		n.ID = id
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Metadata == nil {
		n.Metadata = map[string]string{}
	}

	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return domain.NewStorageError("encode notification metadata", err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO notifications (id, user_id, type, message, metadata, is_read, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		n.ID, n.UserID, n.Type, n.Message, string(metadata), n.Read, n.CreatedAt,
	)
	if err != nil {
		return domain.NewStorageError("insert notification", err)
	}
	return nil
}

func (r *NotificationRepository) History(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, type, message, metadata, is_read, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC LIMIT ?",
		userID, limit,
	)
	if err != nil {
		return nil, domain.NewStorageError("list notifications", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, domain.NewStorageError("scan notification", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list notifications", err)
	}
	return notifications, nil
}

func scanNotification(row interface{ Scan(...any) error }) (domain.Notification, error) {
	var (
		n        domain.Notification
		metadata string
	)
	if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &metadata, &n.Read, &n.CreatedAt); err != nil {
		return n, err
	}
	if err := json.Unmarshal([]byte(metadata), &n.Metadata); err != nil {
		n.Metadata = map[string]string{}
	}
	return n, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID string) (*domain.Notification, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE notifications SET is_read = 1 WHERE id = ?", notificationID)
	if err != nil {
		return nil, domain.NewStorageError("mark notification read", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, domain.NewStorageError("mark notification read", err)
	}
	if affected == 0 {
		return nil, domain.ErrNotFound
	}

	n, err := scanNotification(r.db.QueryRowContext(ctx,
		"SELECT id, user_id, type, message, metadata, is_read, created_at FROM notifications WHERE id = ?",
		notificationID,
	))
	if err != nil {
		return nil, domain.NewStorageError("get notification", err)
	}
	return &n, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0", userID)
	if err != nil {
		return 0, domain.NewStorageError("mark all notifications read", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, domain.NewStorageError("mark all notifications read", err)
	}
	return int(affected), nil
}
