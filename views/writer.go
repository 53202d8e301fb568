package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// writer accumulates the first write error so components can emit markup
// without checking every call.
type writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

func component(fn func(h *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &writer{ctx: ctx, w: w}
		fn(h)
		return h.err
	})
}

func (h *writer) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *writer) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *writer) attr(name, val string) {
	h.raw(" ", name, `="`, templ.EscapeString(val), `"`)
}

// flag writes a boolean attribute when on.
func (h *writer) flag(name string, on bool) {
	if on {
		h.raw(" ", name)
	}
}

func (h *writer) render(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

// element writes <tag class="...">text</tag>.
func (h *writer) element(tag, class, text string) {
	h.raw("<", tag)
	if class != "" {
		h.attr("class", class)
	}
	h.raw(">")
	h.text(text)
	h.raw("</", tag, ">")
}

// externalLink writes an anchor opening in a new browsing context without
// opener access.
func (h *writer) externalLink(href, class, label string) {
	h.raw("<a")
	h.attr("href", href)
	if class != "" {
		h.attr("class", class)
	}
	h.raw(` target="_blank" rel="noopener noreferrer">`)
	h.text(label)
	h.raw("</a>")
}

func (h *writer) link(href, class, label string) {
	h.raw("<a")
	h.attr("href", href)
	if class != "" {
		h.attr("class", class)
	}
	h.raw(">")
	h.text(label)
	h.raw("</a>")
}
