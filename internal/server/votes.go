package server

import (
	"net/http"
	"time"

	"commsafe/internal/domain"
	"commsafe/internal/service"
)

type voteResponse struct {
	ID         string    `json:"id"`
	ReporterID string    `json:"reporter_id"`
	TargetID   string    `json:"target_id"`
	MatchID    string    `json:"match_id,omitempty"`
	Tag        string    `json:"tag"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toVoteResponse(v domain.Vote) voteResponse {
	return voteResponse{
		ID:         v.ID,
		ReporterID: v.ReporterID,
		TargetID:   v.TargetID,
		MatchID:    v.MatchID,
		Tag:        v.Tag,
		Comment:    v.Comment,
		CreatedAt:  v.CreatedAt,
	}
}

func toVoteResponses(votes []domain.Vote) []voteResponse {
	out := make([]voteResponse, len(votes))
	for i, v := range votes {
		out[i] = toVoteResponse(v)
	}
	return out
}

func (s *Server) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ReporterID string `json:"reporter_id"`
		TargetID   string `json:"target_id"`
		MatchID    string `json:"match_id"`
		Tag        string `json:"tag"`
		Comment    string `json:"comment"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	vote, err := s.votes.Submit(r.Context(), service.SubmitVoteInput{
		ReporterID: body.ReporterID,
		TargetID:   body.TargetID,
		MatchID:    body.MatchID,
		Tag:        body.Tag,
		Comment:    body.Comment,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVoteResponse(*vote))
}

func (s *Server) handleVotesForTarget(w http.ResponseWriter, r *http.Request) {
	votes, err := s.votes.ListByTarget(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toVoteResponses(votes))
}

func (s *Server) handleVotesByReporter(w http.ResponseWriter, r *http.Request) {
	votes, err := s.votes.ListByReporter(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toVoteResponses(votes))
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reputation.ComputeReputation(r.Context(), r.PathValue("id"), time.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"vibeScore": rep.Score,
		"warning":   optString(rep.Warning),
		"tags":      rep.Tags,
	})
}

func (s *Server) handleGoodTeammates(w http.ResponseWriter, r *http.Request) {
	teammates, err := s.leaderboards.GoodTeammates(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]map[string]any, len(teammates))
	for i, t := range teammates {
		out[i] = map[string]any{
			"userId":             t.UserID,
			"steamId":            t.SteamID,
			"username":           t.Username,
			"positiveTags":       t.PositiveTags,
			"totalPositiveVotes": t.TotalPositiveVotes,
			"lastPlayed":         t.LastPlayed,
			"currentVibeScore":   t.CurrentVibeScore,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
