package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/resumemd/internal/parser"
)

// handleParse parses a markdown body into a document. An optional filename
// query parameter is checked against the supported extensions.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	filename := "upload.md"
	if name := r.URL.Query().Get("filename"); name != "" {
		filename = sanitizeFilename(name)
	}
	p, err := parser.ForFile(filename)
	if err != nil {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	doc, err := p.Parse(r.Body, filename)
	if err != nil {
		bodyError(w, s.cfg.MaxUploadBytes, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

// handleRender renders a markdown body to sanitized HTML. mode=inline
// produces a fragment without block wrappers.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = "block"
	}
	if mode != "block" && mode != "inline" {
		jsonError(w, fmt.Sprintf("invalid mode %q: want block or inline", mode), http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		bodyError(w, s.cfg.MaxUploadBytes, err)
		return
	}

	var out string
	if mode == "inline" {
		out, err = s.renderer.Inline(string(data))
	} else {
		out, err = s.renderer.Block(string(data))
	}
	if err != nil {
		s.log.Error("render markdown", "mode", mode, "error", err)
		jsonError(w, "failed to render markdown", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"html": out})
}

func bodyError(w http.ResponseWriter, limit int64, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", limit), http.StatusRequestEntityTooLarge)
		return
	}
	jsonError(w, "failed to read body", http.StatusBadRequest)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
