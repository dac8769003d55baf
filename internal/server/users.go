package server

import (
	"net/http"
	"time"

	"commsafe/internal/domain"
	"commsafe/internal/service"
)

type userResponse struct {
	ID        string    `json:"id"`
	SteamID   string    `json:"steam_id,omitempty"`
	FaceitID  string    `json:"faceit_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		SteamID:   u.SteamID,
		FaceitID:  u.FaceitID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]userResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SteamID  string `json:"steam_id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Create(r.Context(), service.CreateUserInput{
		SteamID:  body.SteamID,
		Username: body.Username,
		Email:    body.Email,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleFaceitUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FaceitID string `json:"faceit_id"`
		Nickname string `json:"nickname"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.EnsureFaceitUser(r.Context(), body.FaceitID, body.Nickname)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
