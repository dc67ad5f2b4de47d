package parser

import (
	"strings"

	"github.com/dgallion1/resumemd/internal/resume"
)

// State is the accumulator threaded through a parse. Step never writes into
// the backing arrays of the State it receives, so any intermediate State can
// be kept and stepped again independently.
type State struct {
	Header   resume.Header
	Sections []resume.Section // Sealed sections

	Section *resume.Section // Open section, nil before the first section heading
	Item    *resume.Item    // Open item

	ItemBuffer    []string // Lines for the open item
	SectionBuffer []string // Section lines seen while no item is open
}

// NewState returns the state at the start of input.
func NewState() State {
	return State{Sections: []resume.Section{}}
}

// Step applies one classified line.
func Step(s State, l Line) State {
	s = detach(s)
	step(&s, l)
	return s
}

// Finish flushes whatever is still open and returns the document.
func Finish(s State) resume.Document {
	s = detach(s)
	return finish(&s)
}

// detach caps every slice the State owns and copies the open section, so
// appends made through the result never land in the caller's arrays.
func detach(s State) State {
	s.Sections = s.Sections[:len(s.Sections):len(s.Sections)]
	s.ItemBuffer = s.ItemBuffer[:len(s.ItemBuffer):len(s.ItemBuffer)]
	s.SectionBuffer = s.SectionBuffer[:len(s.SectionBuffer):len(s.SectionBuffer)]
	if s.Section != nil {
		sec := *s.Section
		sec.Items = sec.Items[:len(sec.Items):len(sec.Items)]
		s.Section = &sec
	}
	return s
}

// step mutates s in place. Parse owns its State, so it skips the copying
// Step does.
func step(s *State, l Line) {
	switch l.Kind {
	case KindDocumentTitle:
		s.Header.Name = l.Text
	case KindContactLine:
		s.Header.Contact = l.Text
	case KindSectionTitle:
		closeSection(s)
		s.Section = &resume.Section{ID: l.Text, Title: l.Text, Items: []resume.Item{}}
	case KindItemTitle:
		flushItem(s)
		// Section text before the first sub-heading is dropped, not kept as a bare item.
		s.SectionBuffer = nil
		s.Item = &resume.Item{Title: l.Text, Level: resume.Level(l.Level)}
	default:
		switch {
		case s.Section == nil:
		case s.Item != nil:
			s.ItemBuffer = append(s.ItemBuffer, l.Raw)
		default:
			s.SectionBuffer = append(s.SectionBuffer, l.Raw)
		}
	}
}

func finish(s *State) resume.Document {
	closeSection(s)
	sections := s.Sections
	if sections == nil {
		sections = []resume.Section{}
	}
	return resume.Document{Header: s.Header, Sections: sections}
}

// closeSection seals the open item, any pending bare content, and the open
// section, in that order.
func closeSection(s *State) {
	flushItem(s)
	flushSectionContent(s)
	if s.Section != nil {
		s.Sections = append(s.Sections, *s.Section)
		s.Section = nil
	}
}

// flushItem seals the open item into the open section. With no section open
// the item stays pending and lands in the next section that opens.
func flushItem(s *State) {
	if s.Item == nil || s.Section == nil {
		return
	}
	it := *s.Item
	it.Content = joinTrimmed(s.ItemBuffer)
	s.Section.Items = append(s.Section.Items, it)
	s.Item = nil
	s.ItemBuffer = nil
}

func flushSectionContent(s *State) {
	if s.Section == nil || len(s.SectionBuffer) == 0 {
		return
	}
	if content := joinTrimmed(s.SectionBuffer); content != "" {
		s.Section.Items = append(s.Section.Items, resume.Item{Content: content})
	}
	s.SectionBuffer = nil
}

func joinTrimmed(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
