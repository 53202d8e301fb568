package views

import (
	"github.com/a-h/templ"

	"github.com/dejaos/dejasite/sidebar"
)

// DocPage renders a documentation page with its sidebar and pager.
func DocPage(site Site, meta PageMeta, v DocView) templ.Component {
	return Layout(site, meta, component(func(h *writer) {
		h.raw(`<div class="docs-wrapper">`)
		h.raw(`<aside class="theme-doc-sidebar-container"><nav class="menu" aria-label="Docs sidebar">`)
		sidebarList(h, v.Sidebar)
		h.raw("</nav></aside>")
		h.raw(`<div class="docs-main"><article class="theme-doc-markdown markdown">`)
		if v.Notice != "" {
			h.element("div", "admonition admonition-note", v.Notice)
		}
		if v.ShowTitle {
			h.element("h1", "", v.Title)
		}
		h.render(templ.Raw(v.HTML))
		h.raw("</article>")
		if v.Prev != nil || v.Next != nil {
			h.raw(`<nav class="pagination-nav docusaurus-mt-lg" aria-label="Docs pages">`)
			if v.Prev != nil {
				pagerLink(h, *v.Prev, "pagination-nav__link--prev", orDefault(v.PrevLabel, "Previous"))
			}
			if v.Next != nil {
				pagerLink(h, *v.Next, "pagination-nav__link--next", orDefault(v.NextLabel, "Next"))
			}
			h.raw("</nav>")
		}
		h.raw("</div></div>")
	}))
}

func pagerLink(h *writer, l PagerLink, class, sub string) {
	h.raw("<a")
	h.attr("href", l.Href)
	h.attr("class", "pagination-nav__link "+class)
	h.raw(">")
	h.element("div", "pagination-nav__sublabel", sub)
	h.element("div", "pagination-nav__label", l.Label)
	h.raw("</a>")
}

func sidebarList(h *writer, nodes []sidebar.Node) {
	h.raw(`<ul class="menu__list">`)
	for _, n := range nodes {
		class := "menu__list-item"
		if n.Category && !n.Expanded {
			class += " menu__list-item--collapsed"
		}
		h.raw("<li")
		h.attr("class", class)
		h.raw(">")
		switch {
		case n.Category:
			h.raw("<details")
			h.flag("open", n.Expanded)
			h.raw("><summary")
			cls := "menu__link menu__link--sublist"
			if n.Active {
				cls += " menu__link--active"
			}
			h.attr("class", cls)
			h.raw(">")
			h.text(n.Label)
			h.raw("</summary>")
			sidebarList(h, n.Children)
			h.raw("</details>")
		case n.External:
			h.externalLink(n.Href, "menu__link", n.Label)
		default:
			h.raw("<a")
			h.attr("href", n.Href)
			cls := "menu__link"
			if n.Active {
				cls += " menu__link--active"
				h.raw(` aria-current="page"`)
			}
			h.attr("class", cls)
			h.raw(">")
			h.text(n.Label)
			h.raw("</a>")
		}
		h.raw("</li>")
	}
	h.raw("</ul>")
}
