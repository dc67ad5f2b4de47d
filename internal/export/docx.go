package export

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"
	"golang.org/x/net/html"

	"github.com/dgallion1/resumemd/internal/render"
	"github.com/dgallion1/resumemd/internal/resume"
)

// Font sizes are in half-points, as DOCX stores them.
const (
	nameSize    = "44"
	sectionSize = "30"
	itemSize    = "24"
	contactGrey = "595959"
)

// DOCX writes doc as a Word document.
func DOCX(w io.Writer, doc resume.Document, r *render.Renderer) error {
	d, err := Build(doc, r)
	if err != nil {
		return err
	}
	if _, err := d.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

// Build lays doc out as a Word document. Titles carry "HeadingN" paragraph
// styles matching their Markdown level, so the result imports back through
// parser.DOCXParser. Item bodies go through r so the formatting matches what
// the HTML view shows.
func Build(doc resume.Document, r *render.Renderer) (*docx.Docx, error) {
	d := docx.New().WithDefaultTheme()

	if doc.Header.Name != "" {
		d.AddParagraph().Style(headingStyle(1)).Justification("center").AddText(doc.Header.Name).Size(nameSize).Bold()
	}
	if doc.Header.Contact != "" {
		d.AddParagraph().Justification("center").AddText(doc.Header.Contact).Color(contactGrey)
	}

	for _, s := range doc.Sections {
		d.AddParagraph().Style(headingStyle(2)).AddText(s.Title).Size(sectionSize).Bold()
		for _, it := range s.Items {
			if it.Title != "" {
				level := 3
				if it.Level != nil {
					level = *it.Level
				}
				d.AddParagraph().Style(headingStyle(level)).AddText(it.Title).Size(itemSize).Bold()
			}
			if it.Content == "" {
				continue
			}
			body, err := r.Block(it.Content)
			if err != nil {
				return nil, fmt.Errorf("render %q: %w", it.Title, err)
			}
			if err := writeHTML(d, body); err != nil {
				return nil, fmt.Errorf("convert %q: %w", it.Title, err)
			}
		}
	}
	return d, nil
}

type runStyle struct {
	bold   bool
	italic bool
}

// htmlWriter maps sanitized HTML onto DOCX paragraphs and runs.
type htmlWriter struct {
	doc    *docx.Docx
	para   *docx.Paragraph
	prefix string // Pending list bullet for the next paragraph
}

var spaceRun = regexp.MustCompile(`\s+`)

func writeHTML(d *docx.Docx, fragment string) error {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}
	w := &htmlWriter{doc: d}
	if body := findBody(root); body != nil {
		w.walk(body, runStyle{})
	} else {
		w.walk(root, runStyle{})
	}
	return nil
}

func (w *htmlWriter) walk(n *html.Node, st runStyle) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data, st)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style":
			return
		case "br":
			w.para = nil
			return
		case "li":
			w.para = nil
			w.prefix = "• "
			w.children(n, st)
			w.para = nil
			return
		case "p", "div", "blockquote", "pre", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
			w.para = nil
			if headingLevel(n.Data) > 0 {
				st.bold = true
			}
			w.children(n, st)
			w.para = nil
			return
		case "strong", "b", "th":
			st.bold = true
		case "em", "i":
			st.italic = true
		case "td":
			w.text(" ", st)
		}
	}
	w.children(n, st)
}

func (w *htmlWriter) children(n *html.Node, st runStyle) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, st)
	}
}

func (w *htmlWriter) text(s string, st runStyle) {
	s = spaceRun.ReplaceAllString(s, " ")
	if w.para == nil {
		s = strings.TrimLeft(s, " ")
	}
	if s == "" {
		return
	}
	if w.para == nil {
		w.para = w.doc.AddParagraph()
		if w.prefix != "" {
			w.addRun(w.prefix)
			w.prefix = ""
		}
	}
	run := w.addRun(s)
	if st.bold {
		run.Bold()
	}
	if st.italic {
		run.Italic()
	}
}

// addRun appends text to the current paragraph with its spaces kept.
func (w *htmlWriter) addRun(s string) *docx.Run {
	run := w.para.AddText(s)
	for _, c := range run.Children {
		if t, ok := c.(*docx.Text); ok {
			t.XMLSpace = "preserve"
		}
	}
	return run
}

func headingStyle(level int) string {
	return "Heading" + strconv.Itoa(level)
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
