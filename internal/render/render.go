// Package render turns résumé Markdown into HTML that is safe to embed.
//
// It works on raw text only and shares nothing with the structured parser.
// Every output passes through a bluemonday policy before it is returned.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Config selects Markdown dialect options.
type Config struct {
	GFM       bool // Tables, strikethrough, task lists, autolinks
	HardWraps bool // Single newlines become <br>
	Linkify   bool // Bare URLs become links
}

// DefaultConfig matches the dialect résumés are authored in.
func DefaultConfig() Config {
	return Config{GFM: true, HardWraps: true, Linkify: true}
}

// Renderer converts Markdown to sanitized HTML. It is safe for concurrent use.
type Renderer struct {
	cfg    Config
	block  goldmark.Markdown
	inline goldmark.Markdown

	blockPolicy  *bluemonday.Policy
	inlinePolicy *bluemonday.Policy
}

// New builds a Renderer for cfg.
func New(cfg Config) *Renderer {
	return &Renderer{
		cfg:          cfg,
		block:        newBlockEngine(cfg),
		inline:       newInlineEngine(cfg),
		blockPolicy:  bluemonday.UGCPolicy(),
		inlinePolicy: newInlinePolicy(),
	}
}

// Config returns the configuration the renderer was built with.
func (r *Renderer) Config() Config {
	return r.cfg
}

var boldRe = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// Preprocess rewrites **text** into <strong> tags. CommonMark refuses some
// of these runs (e.g. "**中文**后"), so they are converted before parsing.
func Preprocess(text string) string {
	if text == "" {
		return ""
	}
	return boldRe.ReplaceAllString(text, "<strong>$1</strong>")
}

// Block renders text as block-level HTML.
func (r *Renderer) Block(text string) (string, error) {
	if text == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.block.Convert([]byte(Preprocess(text)), &buf); err != nil {
		return "", fmt.Errorf("render block: %w", err)
	}
	return r.blockPolicy.Sanitize(buf.String()), nil
}

// Inline renders text without block structure: headings, lists and quotes
// stay literal and paragraphs are joined with line breaks.
func (r *Renderer) Inline(text string) (string, error) {
	if text == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.inline.Convert([]byte(Preprocess(text)), &buf); err != nil {
		return "", fmt.Errorf("render inline: %w", err)
	}
	out := strings.TrimSpace(buf.String())
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	out = strings.ReplaceAll(out, "</p>\n<p>", "<br>")
	return r.inlinePolicy.Sanitize(out), nil
}

func newBlockEngine(cfg Config) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extensions(cfg)...),
		goldmark.WithRendererOptions(rendererOptions(cfg)...),
	)
}

// newInlineEngine keeps only the paragraph block parser, so every line is
// treated as inline text.
func newInlineEngine(cfg Config) goldmark.Markdown {
	p := parser.NewParser(
		parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)
	var exts []goldmark.Extender
	if cfg.GFM {
		exts = append(exts, extension.Strikethrough)
	}
	if cfg.Linkify {
		exts = append(exts, extension.Linkify)
	}
	return goldmark.New(
		goldmark.WithParser(p),
		goldmark.WithExtensions(exts...),
		goldmark.WithRendererOptions(rendererOptions(cfg)...),
	)
}

func extensions(cfg Config) []goldmark.Extender {
	var exts []goldmark.Extender
	if cfg.GFM {
		exts = append(exts, extension.GFM)
	} else if cfg.Linkify {
		exts = append(exts, extension.Linkify)
	}
	return exts
}

// rendererOptions always allows raw HTML through goldmark; the sanitizer
// is what makes the output safe.
func rendererOptions(cfg Config) []renderer.Option {
	opts := []renderer.Option{html.WithUnsafe()}
	if cfg.HardWraps {
		opts = append(opts, html.WithHardWraps())
	}
	return opts
}

func newInlinePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("strong", "b", "em", "i", "code", "del", "s", "br", "span", "sub", "sup", "mark")
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}
