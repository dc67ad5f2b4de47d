package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/resumemd/internal/resume"
)

// HTMLParser handles HTML résumés: <h1>-<h6> become heading markers,
// paragraphs and list items become body lines.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*resume.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := Parse(HTMLMarkdown(root))
	return &doc, nil
}

// HTMLMarkdown rewrites an HTML tree as résumé Markdown.
func HTMLMarkdown(root *html.Node) string {
	var lines []string
	prevBullet := false

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				if t := collapse(textContent(n)); t != "" {
					lines = append(lines, strings.Repeat("#", level)+" "+t)
					prevBullet = false
				}
				return
			}

			// Skip non-content elements.
			switch n.Data {
			case "script", "style", "nav", "footer":
				return
			case "li":
				if t := inlineMarkdown(n); t != "" {
					lines = append(lines, "- "+t)
					prevBullet = true
				}
				return
			case "p", "td", "blockquote":
				if t := inlineMarkdown(n); t != "" {
					if prevBullet {
						lines = append(lines, "")
					}
					lines = append(lines, t, "")
					prevBullet = false
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	// Find <body> or use whole document.
	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}
	return strings.Join(lines, "\n")
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// inlineMarkdown renders n's children on one line, keeping emphasis,
// code spans and links.
func inlineMarkdown(n *html.Node) string {
	var buf strings.Builder
	var render func(*html.Node)
	render = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "br":
				buf.WriteByte(' ')
				return
			case "strong", "b":
				buf.WriteString(emphasize(collapse(textContent(n)), "**"))
				return
			case "em", "i":
				buf.WriteString(emphasize(collapse(textContent(n)), "*"))
				return
			case "code":
				buf.WriteString("`" + textContent(n) + "`")
				return
			case "a":
				text := collapse(textContent(n))
				if href := attr(n, "href"); href != "" && text != "" {
					buf.WriteString("[" + text + "](" + href + ")")
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			render(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		render(c)
	}
	return collapse(buf.String())
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// collapse folds whitespace runs, including newlines, into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
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
