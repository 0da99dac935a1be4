// Package htmlgen renders a Markdown article into a standalone,
// print-ready HTML page.
package htmlgen

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// DefaultTitle is used when neither the caller nor front matter supplies one.
const DefaultTitle = "Building an Intelligent Informatica Agent"

//go:embed page.html.tmpl
var pageTemplate string

var page = template.Must(template.New("page").Parse(pageTemplate))

// tocMarker matches the paragraph a [TOC] line renders to.
var tocMarker = regexp.MustCompile(`<p>\[TOC\]</p>\n?`)

// Options controls one rendering.
type Options struct {
	// Title overrides the front matter title and DefaultTitle.
	Title string
}

type frontMatter struct {
	Title string `yaml:"title"`
}

// Render converts Markdown source into the full HTML page.
func Render(source []byte, opts Options) ([]byte, error) {
	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, errors.Wrap(err, "parse frontmatter")
	}

	title := firstNonEmpty(opts.Title, meta.Title, DefaultTitle)

	content, err := renderBody(body)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	err = page.Execute(&out, struct {
		Title   string
		Content template.HTML
	}{
		Title:   title,
		Content: template.HTML(content),
	})
	if err != nil {
		return nil, errors.Wrap(err, "render page")
	}
	return out.Bytes(), nil
}

func newEngine() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.Highlighting,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)
}

// renderBody converts Markdown to an HTML fragment, replacing a [TOC]
// paragraph with a nested list of the document's headings.
func renderBody(source []byte) (string, error) {
	engine := newEngine()
	doc := engine.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := engine.Renderer().Render(&buf, source, doc); err != nil {
		return "", errors.Wrap(err, "markdown render")
	}

	rendered := buf.String()
	if !tocMarker.MatchString(rendered) {
		return rendered, nil
	}
	headings, err := collectHeadings(doc, source)
	if err != nil {
		return "", errors.Wrap(err, "collect headings")
	}
	return tocMarker.ReplaceAllLiteralString(rendered, buildTOC(headings)), nil
}

type heading struct {
	level int
	id    string
	text  string
}

func collectHeadings(doc ast.Node, source []byte) ([]heading, error) {
	var out []heading
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var id string
		if v, found := h.AttributeString("id"); found {
			if b, isBytes := v.([]byte); isBytes {
				id = string(b)
			}
		}
		out = append(out, heading{level: h.Level, id: id, text: plainText(h, source)})
		return ast.WalkSkipChildren, nil
	})
	return out, err
}

func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(plainText(c, source))
		}
	}
	return sb.String()
}

// buildTOC renders headings as nested <ul> lists inside a div.toc.
func buildTOC(headings []heading) string {
	var sb strings.Builder
	sb.WriteString("<div class=\"toc\">\n")
	depth := 0
	base := 0
	for _, h := range headings {
		if base == 0 || h.level < base {
			base = h.level
		}
	}
	for _, h := range headings {
		level := h.level - base + 1
		for depth < level {
			sb.WriteString("<ul>\n")
			depth++
		}
		for depth > level {
			sb.WriteString("</ul>\n")
			depth--
		}
		fmt.Fprintf(&sb, "<li><a href=\"#%s\">%s</a></li>\n", html.EscapeString(h.id), html.EscapeString(h.text))
	}
	for ; depth > 0; depth-- {
		sb.WriteString("</ul>\n")
	}
	sb.WriteString("</div>\n")
	return sb.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
