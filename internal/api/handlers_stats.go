package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleLoadStats(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"loaded":     snap.Loaded,
		"last_error": snap.LastError,
		"stats":      s.store.Stats().Snapshot(),
	})
}
