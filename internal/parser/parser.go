package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/resumemd/internal/resume"
)

// ErrUnsupportedExtension is returned by ForFile for files that are not résumé Markdown.
var ErrUnsupportedExtension = errors.New("unsupported file extension")

// Parser converts raw résumé bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*resume.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".html":     true,
	".htm":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename. HTML and Word
// files are converted to résumé Markdown first.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown", ".txt":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExtension, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// SplitLines splits text on '\n', keeping blank lines.
func SplitLines(raw string) []string {
	return strings.Split(raw, "\n")
}

// Parse converts résumé Markdown into a Document in a single pass. It accepts
// any string; lines it cannot place are dropped rather than reported.
func Parse(raw string) resume.Document {
	s := NewState()
	for _, line := range SplitLines(raw) {
		step(&s, Classify(line))
	}
	return finish(&s)
}

// MarkdownParser reads a résumé from a stream.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*resume.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	doc := Parse(string(src))
	return &doc, nil
}
