package server

import (
	"net/http"
	"time"

	"commsafe/internal/domain"
)

type preferencesResponse struct {
	UserID               string `json:"user_id"`
	Email                string `json:"email,omitempty"`
	DiscordWebhook       string `json:"discord_webhook,omitempty"`
	EmailNotifications   bool   `json:"email_notifications"`
	DiscordNotifications bool   `json:"discord_notifications"`
	NotifyOnToxic        bool   `json:"notify_on_toxic"`
	NotifyOnPositive     bool   `json:"notify_on_positive"`
	NotifyOnThreshold    int    `json:"notify_on_threshold"`
}

func toPreferencesResponse(p *domain.NotificationPreferences) preferencesResponse {
	return preferencesResponse{
		UserID:               p.UserID,
		Email:                p.Email,
		DiscordWebhook:       p.DiscordWebhook,
		EmailNotifications:   p.EmailNotifications,
		DiscordNotifications: p.DiscordNotifications,
		NotifyOnToxic:        p.NotifyOnToxic,
		NotifyOnPositive:     p.NotifyOnPositive,
		NotifyOnThreshold:    p.NotifyOnThreshold,
	}
}

type notificationResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Type      string            `json:"type"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"created_at"`
}

func toNotificationResponse(n domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Message:   n.Message,
		Metadata:  n.Metadata,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.notifications.Preferences(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPreferencesResponse(prefs))
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email                string `json:"email"`
		DiscordWebhook       string `json:"discord_webhook"`
		EmailNotifications   bool   `json:"email_notifications"`
		DiscordNotifications bool   `json:"discord_notifications"`
		NotifyOnToxic        bool   `json:"notify_on_toxic"`
		NotifyOnPositive     bool   `json:"notify_on_positive"`
		NotifyOnThreshold    int    `json:"notify_on_threshold"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	prefs, err := s.notifications.UpdatePreferences(r.Context(), &domain.NotificationPreferences{
		UserID:               r.PathValue("id"),
		Email:                body.Email,
		DiscordWebhook:       body.DiscordWebhook,
		EmailNotifications:   body.EmailNotifications,
		DiscordNotifications: body.DiscordNotifications,
		NotifyOnToxic:        body.NotifyOnToxic,
		NotifyOnPositive:     body.NotifyOnPositive,
		NotifyOnThreshold:    body.NotifyOnThreshold,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPreferencesResponse(prefs))
}

func (s *Server) handleNotificationHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.notifications.History(r.Context(), r.PathValue("id"), limitParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]notificationResponse, len(history))
	for i, n := range history {
		out[i] = toNotificationResponse(n)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	notification, err := s.notifications.MarkRead(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNotificationResponse(*notification))
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	count, err := s.notifications.MarkAllRead(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": count})
}
