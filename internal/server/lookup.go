package server

import "net/http"

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	result, err := s.lookup.Lookup(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"steam_id":   result.SteamID,
		"username":   result.Username,
		"avatar":     result.Avatar,
		"profileurl": result.ProfileURL,
		"vibeScore":  result.VibeScore,
		"warning":    optString(result.Warning),
		"tags":       result.Tags,
		"hasRatings": result.HasRatings,
	})
}
