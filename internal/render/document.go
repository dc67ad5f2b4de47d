package render

import (
	"fmt"

	"github.com/dgallion1/resumemd/internal/resume"
)

// HTMLDocument mirrors resume.Document with display-ready fields.
type HTMLDocument struct {
	Name     string        `json:"name"`
	Contact  string        `json:"contact"`
	Sections []HTMLSection `json:"sections"`
}

type HTMLSection struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Items []HTMLItem `json:"items"`
}

type HTMLItem struct {
	Title   string `json:"title"` // Inline HTML, empty for bare items
	Level   *int   `json:"level,omitempty"`
	Content string `json:"content"` // Block HTML
}

// Document renders every displayable field of doc. Titles and header lines
// are rendered inline, item bodies as blocks.
func (r *Renderer) Document(doc resume.Document) (HTMLDocument, error) {
	name, err := r.Inline(doc.Header.Name)
	if err != nil {
		return HTMLDocument{}, fmt.Errorf("header name: %w", err)
	}
	contact, err := r.Inline(doc.Header.Contact)
	if err != nil {
		return HTMLDocument{}, fmt.Errorf("header contact: %w", err)
	}

	out := HTMLDocument{
		Name:     name,
		Contact:  contact,
		Sections: make([]HTMLSection, 0, len(doc.Sections)),
	}
	for _, s := range doc.Sections {
		title, err := r.Inline(s.Title)
		if err != nil {
			return HTMLDocument{}, fmt.Errorf("section %q: %w", s.Title, err)
		}
		hs := HTMLSection{ID: s.ID, Title: title, Items: make([]HTMLItem, 0, len(s.Items))}
		for _, it := range s.Items {
			itemTitle, err := r.Inline(it.Title)
			if err != nil {
				return HTMLDocument{}, fmt.Errorf("item %q: %w", it.Title, err)
			}
			content, err := r.Block(it.Content)
			if err != nil {
				return HTMLDocument{}, fmt.Errorf("item %q content: %w", it.Title, err)
			}
			hs.Items = append(hs.Items, HTMLItem{Title: itemTitle, Level: it.Level, Content: content})
		}
		out.Sections = append(out.Sections, hs)
	}
	return out, nil
}
