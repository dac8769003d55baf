package server

import (
	"commsafe/internal/domain"
	"commsafe/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

type Server struct {
	votes         *service.VoteService
	reputation    *service.ReputationService
	leaderboards  *service.LeaderboardService
	notifications *service.NotificationService
	users         *service.UserService
	lookup        *service.LookupService
	logger        zerolog.Logger
}

func New(
	votes *service.VoteService,
	reputation *service.ReputationService,
	leaderboards *service.LeaderboardService,
	notifications *service.NotificationService,
	users *service.UserService,
	lookup *service.LookupService,
	logger zerolog.Logger,
) *Server {
	return &Server{
		votes:         votes,
		reputation:    reputation,
		leaderboards:  leaderboards,
		notifications: notifications,
		users:         users,
		lookup:        lookup,
		logger:        logger,
	}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHealth)

	mux.HandleFunc("POST /api/votes", s.handleSubmitVote)
	mux.HandleFunc("GET /api/votes/user/{id}", s.handleVotesForTarget)
	mux.HandleFunc("GET /api/votes/by/{id}", s.handleVotesByReporter)
	mux.HandleFunc("GET /api/votes/aggregate/{id}", s.handleAggregate)
	mux.HandleFunc("GET /api/votes/good-teammates/{id}", s.handleGoodTeammates)

	mux.HandleFunc("GET /api/leaderboards/top-players", s.handleTopPlayers)
	mux.HandleFunc("GET /api/leaderboards/top-voters", s.handleTopVoters)
	mux.HandleFunc("GET /api/leaderboards/stats", s.handleStats)

	mux.HandleFunc("GET /api/admin/flagged-users", s.handleFlaggedUsers)
	mux.HandleFunc("GET /api/admin/recent-votes", s.handleRecentVotes)
	mux.HandleFunc("DELETE /api/admin/votes/{id}", s.handleDeleteVote)
	mux.HandleFunc("GET /api/admin/stats", s.handleAdminStats)

	mux.HandleFunc("GET /api/notifications/preferences/{id}", s.handleGetPreferences)
	mux.HandleFunc("PUT /api/notifications/preferences/{id}", s.handleUpdatePreferences)
	mux.HandleFunc("GET /api/notifications/history/{id}", s.handleNotificationHistory)
	mux.HandleFunc("PATCH /api/notifications/{id}/read", s.handleMarkRead)
	mux.HandleFunc("PATCH /api/notifications/user/{id}/read-all", s.handleMarkAllRead)

	mux.HandleFunc("GET /api/users", s.handleListUsers)
	mux.HandleFunc("POST /api/users", s.handleCreateUser)
	mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)
	mux.HandleFunc("POST /api/users/faceit", s.handleFaceitUser)

	mux.HandleFunc("GET /api/lookup/{id}", s.handleLookup)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "commsafe-backend"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Validationf("invalid request body")
	}
	return nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
