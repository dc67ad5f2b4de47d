package parser

import (
	"regexp"
	"strings"
)

// Kind tags a single input line.
type Kind int

const (
	KindContent Kind = iota
	KindDocumentTitle
	KindContactLine
	KindSectionTitle
	KindItemTitle
)

func (k Kind) String() string {
	switch k {
	case KindDocumentTitle:
		return "document_title"
	case KindContactLine:
		return "contact_line"
	case KindSectionTitle:
		return "section_title"
	case KindItemTitle:
		return "item_title"
	default:
		return "content"
	}
}

const (
	// ContactSeparator is the full-width vertical bar (U+FF5C), not ASCII '|'.
	ContactSeparator = "｜"
	// ObjectiveMarker is the literal "job objective" label on the contact line.
	ObjectiveMarker = "求职意向"
)

// Line is a classified input line.
type Line struct {
	Kind  Kind
	Level int    // Heading depth for KindItemTitle, 0 otherwise
	Text  string // Heading text, trimmed contact line, or the raw line for content
	Raw   string
}

// space matches the same whitespace set as a JavaScript \s, which the
// résumé dialect was written against (ideographic space included).
const space = `[\s\v\p{Z}\x{feff}]`

var (
	documentTitlePrefix = regexp.MustCompile(`^#` + space + `+`)
	sectionTitlePrefix  = regexp.MustCompile(`^##` + space + `+`)
	itemTitleRe         = regexp.MustCompile(`^(#{3,6})` + space + `+([^\r\n\x{2028}\x{2029}]+)$`)
)

// Classify maps one line to its kind. Checks run in a fixed order because
// heading markers nest as prefixes of each other.
func Classify(line string) Line {
	if strings.HasPrefix(line, "# ") && !strings.HasPrefix(line, "## ") {
		return Line{
			Kind: KindDocumentTitle,
			Text: strings.TrimSpace(documentTitlePrefix.ReplaceAllString(line, "")),
			Raw:  line,
		}
	}

	if strings.Contains(line, ContactSeparator) && strings.Contains(line, ObjectiveMarker) {
		return Line{Kind: KindContactLine, Text: strings.TrimSpace(line), Raw: line}
	}

	if strings.HasPrefix(line, "## ") && !strings.HasPrefix(line, "### ") {
		return Line{
			Kind: KindSectionTitle,
			Text: strings.TrimSpace(sectionTitlePrefix.ReplaceAllString(line, "")),
			Raw:  line,
		}
	}

	if m := itemTitleRe.FindStringSubmatch(line); m != nil {
		return Line{
			Kind:  KindItemTitle,
			Level: len(m[1]),
			Text:  strings.TrimSpace(m[2]),
			Raw:   line,
		}
	}

	return Line{Kind: KindContent, Text: line, Raw: line}
}
