package server

import (
	"net/http"
	"strconv"
	"time"
)

func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0
	}
	return limit
}

func (s *Server) handleTopPlayers(w http.ResponseWriter, r *http.Request) {
	entries, err := s.leaderboards.TopPlayers(r.Context(), limitParam(r), time.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]map[string]any, len(entries))
	for i, e := range entries {
		out[i] = map[string]any{
			"rank":       e.Rank,
			"steam_id":   e.SteamID,
			"username":   e.Username,
			"vibeScore":  e.VibeScore,
			"totalVotes": e.TotalVotes,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTopVoters(w http.ResponseWriter, r *http.Request) {
	entries, err := s.leaderboards.TopVoters(r.Context(), limitParam(r), time.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]map[string]any, len(entries))
	for i, e := range entries {
		out[i] = map[string]any{
			"rank":       e.Rank,
			"steam_id":   e.SteamID,
			"username":   e.Username,
			"votesGiven": e.VotesGiven,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.leaderboards.Stats(r.Context(), time.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	topTags := make([]map[string]any, len(stats.TopTags))
	for i, t := range stats.TopTags {
		topTags[i] = map[string]any{"tag": t.Tag, "count": t.Count}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalUsers":      stats.TotalUsers,
		"totalVotes":      stats.TotalVotes,
		"votesLast30Days": stats.VotesLast30Days,
		"topTags":         topTags,
	})
}
