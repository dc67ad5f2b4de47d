package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/resumemd/internal/resume"
)

// DOCXParser handles .docx résumés. Paragraphs styled "Heading N" become
// N-level Markdown headings; bold and italic runs keep their emphasis.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*resume.Document, error) {
	// go-docx needs a ReaderAt and the total size.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	d, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}
	doc := Parse(DOCXMarkdown(d))
	return &doc, nil
}

// DOCXMarkdown rewrites a Word document as résumé Markdown.
func DOCXMarkdown(d *docx.Docx) string {
	var lines []string
	prevBullet := false
	for _, item := range d.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if level := docxHeadingLevel(para); level > 0 {
			if text := docxParagraphText(para, false); text != "" {
				lines = append(lines, strings.Repeat("#", level)+" "+text)
				prevBullet = false
			}
			continue
		}

		text := docxParagraphText(para, true)
		if text == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(text, "• "); ok {
			lines = append(lines, "- "+rest)
			prevBullet = true
			continue
		}
		// A plain line right after a list would read as a continuation.
		if prevBullet {
			lines = append(lines, "")
		}
		lines = append(lines, text, "")
		prevBullet = false
	}
	return strings.Join(lines, "\n")
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	rest, ok := strings.CutPrefix(style, "heading")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > 6 {
		return 0
	}
	return n
}

// docxParagraphText joins the paragraph's runs. With markup, bold and
// italic runs are wrapped in Markdown emphasis.
func docxParagraphText(para *docx.Paragraph, markup bool) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		var text strings.Builder
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				text.WriteString(t.Text)
			}
		}
		s := text.String()
		if markup && run.RunProperties != nil {
			if run.RunProperties.Bold != nil {
				s = emphasize(s, "**")
			}
			if run.RunProperties.Italic != nil {
				s = emphasize(s, "*")
			}
		}
		buf.WriteString(s)
	}
	return strings.TrimSpace(buf.String())
}

// emphasize wraps the non-space core of s in marker. Markdown emphasis
// cannot start or end with whitespace.
func emphasize(s, marker string) string {
	core := strings.TrimSpace(s)
	if core == "" {
		return s
	}
	start := strings.Index(s, core)
	return s[:start] + marker + core + marker + s[start+len(core):]
}
