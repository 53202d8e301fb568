// Package markdown renders documentation and blog Markdown to sanitized HTML
// and exposes the result as templ components.
package markdown

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// TruncateMarker separates a blog post's excerpt from the rest of its body.
const TruncateMarker = "<!-- truncate -->"

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(imageLoading{}, 100)),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	policy = newPolicy()

	reLanguageClass = regexp.MustCompile(`^language-[\w+#-]+$`)
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(reLanguageClass).OnElements("code")
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("loading", "decoding").OnElements("img")
	p.AllowElements("details", "summary")
	p.RequireNoFollowOnLinks(false)
	return p
}

// Markdown returns a templ.Component that renders content as sanitized HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := Render(&buf, content); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Render converts GitHub flavoured Markdown to sanitized HTML.
func Render(w io.Writer, content string) error {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return err
	}
	return policy.SanitizeReaderToWriter(&buf, w)
}

// HTML is Render into a string.
func HTML(content string) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, content); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Excerpt returns the part of body before the truncate marker, or the first
// paragraph when there is no marker.
func Excerpt(body string) string {
	if i := strings.Index(body, TruncateMarker); i >= 0 {
		return strings.TrimSpace(body[:i])
	}
	body = strings.TrimSpace(body)
	for _, block := range strings.Split(body, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || strings.HasPrefix(block, "#") {
			continue
		}
		return block
	}
	return ""
}

// Title returns the text of the first level-one ATX heading in body.
func Title(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}

// ReadingTime estimates minutes to read body at 200 words per minute. Han
// characters count as one word each. The result is at least 1.
func ReadingTime(body string) int {
	words := 0
	inWord := false
	for _, r := range body {
		switch {
		case unicode.Is(unicode.Han, r):
			words++
			inWord = false
		case unicode.IsSpace(r) || unicode.IsPunct(r):
			inWord = false
		default:
			if !inWord {
				words++
				inWord = true
			}
		}
	}
	minutes := (words + 199) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}

// imageLoading marks the first image eager and the rest lazy.
type imageLoading struct{}

func (imageLoading) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	count := 0
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		count++
		if count == 1 {
			img.SetAttributeString("loading", []byte("eager"))
		} else {
			img.SetAttributeString("loading", []byte("lazy"))
		}
		img.SetAttributeString("decoding", []byte("async"))
		return ast.WalkContinue, nil
	})
}
