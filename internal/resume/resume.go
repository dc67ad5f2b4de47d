package resume

// Document is the root of a parsed résumé.
type Document struct {
	Header   Header    `json:"header"`
	Sections []Section `json:"sections"` // In input order; never nil for a parsed document
}

// Header carries the résumé owner's identity lines.
type Header struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	// Objective is reserved. No parsing rule populates it.
	Objective string `json:"objective"`
}

// Section is a level-2 heading and everything under it up to the next one.
type Section struct {
	ID    string `json:"id"`    // Same as Title; headings double as identifiers
	Title string `json:"title"` // Heading text
	Items []Item `json:"items"`
}

// Item is an entry within a section. A titleless item without a level holds
// section text that had no sub-heading.
type Item struct {
	Title   string `json:"title"`
	Level   *int   `json:"level,omitempty"` // 3-6, nil for bare content
	Content string `json:"content"`
}

// IsBare reports whether the item was synthesized from section body text.
func (it Item) IsBare() bool {
	return it.Title == "" && it.Level == nil
}

// Empty reports whether the document has neither header fields nor sections.
func (d Document) Empty() bool {
	return d.Header == (Header{}) && len(d.Sections) == 0
}

// ItemCount returns the number of items across all sections.
func (d Document) ItemCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Items)
	}
	return n
}

// Level returns a pointer to a heading level, for building items.
func Level(n int) *int {
	return &n
}
