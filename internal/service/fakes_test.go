package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"commsafe/internal/api"
	"commsafe/internal/domain"
)

// In-memory stores backing the service tests.

type fakeVoteStore struct {
	votes     []domain.Vote
	insertErr error
	nextID    int
}

func (f *fakeVoteStore) Insert(_ context.Context, vote *domain.Vote) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, v := range f.votes {
		if v.ReporterID == vote.ReporterID && v.TargetID == vote.TargetID && v.MatchID == vote.MatchID {
			return domain.ErrDuplicate
		}
	}
	f.nextID++
	vote.ID = fmt.Sprintf("vote-%d", f.nextID)
	f.votes = append(f.votes, *vote)
	return nil
}

func (f *fakeVoteStore) Exists(_ context.Context, reporterID, targetID, matchID string) (bool, error) {
	for _, v := range f.votes {
		if v.ReporterID == reporterID && v.TargetID == targetID && v.MatchID == matchID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeVoteStore) ListByTarget(_ context.Context, targetID string) ([]domain.Vote, error) {
	var out []domain.Vote
	for _, v := range f.votes {
		if v.TargetID == targetID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVoteStore) ListByReporter(_ context.Context, reporterID string) ([]domain.Vote, error) {
	var out []domain.Vote
	for _, v := range f.votes {
		if v.ReporterID == reporterID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVoteStore) ListSince(_ context.Context, cutoff time.Time) ([]domain.Vote, error) {
	var out []domain.Vote
	for _, v := range f.votes {
		if v.CreatedAt.After(cutoff) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVoteStore) ListRecent(_ context.Context, limit int) ([]domain.Vote, error) {
	out := make([]domain.Vote, len(f.votes))
	copy(out, f.votes)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeVoteStore) ListPositiveByReporter(_ context.Context, reporterID string, tags []string) ([]domain.Vote, error) {
	allowed := make(map[string]bool, len(tags))
	for _, t := range tags {
		allowed[t] = true
	}
	var out []domain.Vote
	for _, v := range f.votes {
		if v.ReporterID == reporterID && allowed[v.Tag] {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVoteStore) DeleteByID(_ context.Context, voteID string) error {
	for i, v := range f.votes {
		if v.ID == voteID {
			f.votes = append(f.votes[:i], f.votes[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeVoteStore) Count(_ context.Context) (int, error) {
	return len(f.votes), nil
}

func (f *fakeVoteStore) CountSince(_ context.Context, cutoff time.Time) (int, error) {
	n := 0
	for _, v := range f.votes {
		if v.CreatedAt.After(cutoff) {
			n++
		}
	}
	return n, nil
}

type fakeUserStore struct {
	users map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*domain.User)}
}

func (f *fakeUserStore) Get(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserStore) GetBySteamID(_ context.Context, steamID string) (*domain.User, error) {
	for _, u := range f.users {
		if u.SteamID == steamID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserStore) GetByFaceitID(_ context.Context, faceitID string) (*domain.User, error) {
	for _, u := range f.users {
		if u.FaceitID == faceitID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserStore) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = "user-" + user.SteamID + user.FaceitID
	}
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) Count(_ context.Context) (int, error) {
	return len(f.users), nil
}

type fakeNotificationStore struct {
	prefs         map[string]*domain.NotificationPreferences
	notifications []domain.Notification
	insertErr     error
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{prefs: make(map[string]*domain.NotificationPreferences)}
}

func (f *fakeNotificationStore) GetPreferences(_ context.Context, userID string) (*domain.NotificationPreferences, error) {
	if p, ok := f.prefs[userID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeNotificationStore) UpsertPreferences(_ context.Context, prefs *domain.NotificationPreferences) error {
	copied := *prefs
	f.prefs[prefs.UserID] = &copied
	return nil
}

func (f *fakeNotificationStore) Insert(_ context.Context, n *domain.Notification) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	n.ID = "notif"
	n.CreatedAt = time.Now()
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeNotificationStore) History(_ context.Context, userID string, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	for i := len(f.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if f.notifications[i].UserID == userID {
			out = append(out, f.notifications[i])
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, notificationID string) (*domain.Notification, error) {
	for i := range f.notifications {
		if f.notifications[i].ID == notificationID {
			f.notifications[i].Read = true
			copied := f.notifications[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeNotificationStore) MarkAllRead(_ context.Context, userID string) (int, error) {
	n := 0
	for i := range f.notifications {
		if f.notifications[i].UserID == userID && !f.notifications[i].Read {
			f.notifications[i].Read = true
			n++
		}
	}
	return n, nil
}

type fakeWebhookSender struct {
	calls []webhookCall
	err   error
}

type webhookCall struct {
	url     string
	message string
	color   int
}

func (f *fakeWebhookSender) SendWebhook(_ context.Context, webhookURL, message string, color int) error {
	f.calls = append(f.calls, webhookCall{url: webhookURL, message: message, color: color})
	return f.err
}

// fakeNotifier signals each dispatch on a channel so tests can wait for the
// background handoff without sleeping.
type fakeNotifier struct {
	done chan struct{}
	err  error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan struct{}, 8)}
}

func (f *fakeNotifier) NotifyVote(_ context.Context, targetID, tag, matchID string) error {
	f.done <- struct{}{}
	return f.err
}

func (f *fakeNotifier) wait(timeout time.Duration) bool {
	select {
	case <-f.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

type fakeSteamAPI struct {
	vanityToID map[string]string
	summaries  map[string]*api.PlayerSummary
}

func (f *fakeSteamAPI) ResolveVanityURL(_ context.Context, vanity string) (string, error) {
	if id, ok := f.vanityToID[vanity]; ok {
		return id, nil
	}
	return "", domain.ErrNotFound
}

func (f *fakeSteamAPI) GetPlayerSummary(_ context.Context, steamID string) (*api.PlayerSummary, error) {
	if s, ok := f.summaries[steamID]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}
