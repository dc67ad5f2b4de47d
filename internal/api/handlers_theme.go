package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dgallion1/resumemd/internal/prefs"
)

const anonymousClient = "anonymous"

type themeResponse struct {
	Theme prefs.Theme `json:"theme"`
	Dark  bool        `json:"dark"`
}

func clientID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-Client-ID")); id != "" {
		return id
	}
	return anonymousClient
}

// prefersDark reads the Sec-CH-Prefers-Color-Scheme client hint, whose
// value arrives quoted.
func prefersDark(r *http.Request) bool {
	v := strings.Trim(strings.TrimSpace(r.Header.Get("Sec-CH-Prefers-Color-Scheme")), `"`)
	return strings.EqualFold(v, "dark")
}

func writeTheme(w http.ResponseWriter, t prefs.Theme) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Add("Vary", "Sec-CH-Prefers-Color-Scheme")
	json.NewEncoder(w).Encode(themeResponse{Theme: t, Dark: t.IsDark()})
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	if s.themes == nil {
		jsonError(w, "theme preferences unavailable", http.StatusServiceUnavailable)
		return
	}
	t, err := s.themes.Current(r.Context(), clientID(r), prefersDark(r))
	if err != nil {
		s.log.Error("get theme", "error", err)
		jsonError(w, "failed to read theme", http.StatusInternalServerError)
		return
	}
	writeTheme(w, t)
}

func (s *Server) handlePutTheme(w http.ResponseWriter, r *http.Request) {
	if s.themes == nil {
		jsonError(w, "theme preferences unavailable", http.StatusServiceUnavailable)
		return
	}
	var body struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&body); err != nil {
		jsonError(w, "invalid json body", http.StatusBadRequest)
		return
	}
	t, err := prefs.ParseTheme(body.Theme)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.themes.Set(r.Context(), clientID(r), t); err != nil {
		s.log.Error("set theme", "error", err)
		jsonError(w, "failed to save theme", http.StatusInternalServerError)
		return
	}
	writeTheme(w, t)
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	if s.themes == nil {
		jsonError(w, "theme preferences unavailable", http.StatusServiceUnavailable)
		return
	}
	t, err := s.themes.Toggle(r.Context(), clientID(r), prefersDark(r))
	if err != nil {
		s.log.Error("toggle theme", "error", err)
		jsonError(w, "failed to save theme", http.StatusInternalServerError)
		return
	}
	writeTheme(w, t)
}
