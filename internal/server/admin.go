package server

import (
	"net/http"
	"time"
)

func (s *Server) handleFlaggedUsers(w http.ResponseWriter, r *http.Request) {
	flagged, err := s.leaderboards.FlaggedUsers(r.Context(), time.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]map[string]any, len(flagged))
	for i, f := range flagged {
		out[i] = map[string]any{
			"id":           f.UserID,
			"steam_id":     f.SteamID,
			"username":     f.Username,
			"toxicCount":   f.ToxicCount,
			"cheaterCount": f.CheaterCount,
			"afkCount":     f.AFKCount,
			"totalVotes":   f.TotalVotes,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRecentVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := s.votes.ListRecent(r.Context(), limitParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toVoteResponses(votes))
}

func (s *Server) handleDeleteVote(w http.ResponseWriter, r *http.Request) {
	if err := s.votes.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "vote deleted"})
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.leaderboards.AdminOverview(r.Context(), time.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalUsers":   stats.TotalUsers,
		"totalVotes":   stats.TotalVotes,
		"votesLast24h": stats.VotesLast24h,
	})
}
