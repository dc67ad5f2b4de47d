package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dgallion1/resumemd/internal/export"
	"github.com/dgallion1/resumemd/internal/render"
	"github.com/dgallion1/resumemd/internal/resume"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type resumeResponse struct {
	Loaded   bool             `json:"loaded"`
	Header   resume.Header    `json:"header"`
	Sections []resume.Section `json:"sections"`
	Hash     string           `json:"hash,omitempty"`
	LoadedAt time.Time        `json:"loaded_at,omitzero"`
}

// handleResume serves the parsed résumé. Before the first successful load
// it answers with loaded=false and an empty document.
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	if snap.Loaded {
		etag := `"` + snap.Hash + `"`
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resumeResponse{
		Loaded:   snap.Loaded,
		Header:   snap.Document.Header,
		Sections: snap.Document.Sections,
		Hash:     snap.Hash,
		LoadedAt: snap.LoadedAt,
	})
}

func (s *Server) handleResumeHTML(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	doc, err := s.renderer.Document(snap.Document)
	if err != nil {
		s.log.Error("render resume", "error", err)
		jsonError(w, "failed to render resume", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Loaded bool `json:"loaded"`
		render.HTMLDocument
	}{snap.Loaded, doc})
}

func (s *Server) handleResumeDOCX(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Document()
	if err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	// Build fully before writing so a failure can still set the status.
	var buf bytes.Buffer
	if err := export.DOCX(&buf, doc, s.renderer); err != nil {
		s.log.Error("export docx", "error", err)
		jsonError(w, "failed to export resume", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="resume.docx"`)
	w.Write(buf.Bytes())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if !s.store.Load(r.Context()) {
		jsonError(w, "reload failed: "+s.store.Snapshot().LastError, http.StatusBadGateway)
		return
	}
	snap := s.store.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"loaded":    true,
		"hash":      snap.Hash,
		"sections":  len(snap.Document.Sections),
		"items":     snap.Document.ItemCount(),
		"loaded_at": snap.LoadedAt,
	})
}
