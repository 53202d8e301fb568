package views

import (
	"strconv"

	"github.com/a-h/templ"
)

// SearchPage renders the search form, hits and paginator.
func SearchPage(site Site, meta PageMeta, v SearchView) templ.Component {
	return Layout(site, meta, component(func(h *writer) {
		h.raw(`<div class="container margin-vert--lg search-page">`)
		h.element("h1", "", v.Heading)
		h.raw(`<form class="search-form" method="get" role="search"><input type="search" name="q" class="search-input" autofocus`)
		h.attr("value", v.Query)
		h.attr("placeholder", v.Placeholder)
		h.attr("aria-label", v.Placeholder)
		h.raw("></form>")
		h.render(SearchResults(v))
		h.raw("</div>")
	}))
}

// SearchResults renders only the result area.
func SearchResults(v SearchView) templ.Component {
	return component(func(h *writer) {
		h.raw(`<div class="search-results">`)
		defer h.raw("</div>")
		switch {
		case v.Query == "":
			h.element("div", "search-empty", v.EmptyText)
			return
		case v.Error != "":
			h.raw(`<div class="search-error" role="alert">`)
			h.text(v.Error)
			h.raw("</div>")
			return
		case len(v.Hits) == 0:
			h.element("div", "search-empty", v.NoResults)
			return
		}
		h.raw(`<p class="search-total">`)
		h.text(strconv.Itoa(v.Total))
		h.raw("</p>")
		for _, hit := range v.Hits {
			h.raw(`<article class="search-hit"><h3><a class="search-hit__title"`)
			h.attr("href", hit.URL)
			h.raw(">", hit.TitleHTML, "</a></h3>")
			h.raw(`<div class="search-hit__url">`)
			h.link(hit.URL, "", hit.URL)
			h.raw("</div>")
			h.raw(`<div class="search-hit__hierarchy">`)
			h.element("span", "search-hit__lvl0", hit.Lvl0)
			if hit.Lvl2 != "" {
				h.raw("<span> &gt; ")
				h.text(hit.Lvl2)
				h.raw("</span>")
			}
			h.raw("</div>")
			h.raw(`<p class="search-hit__content">`, hit.TextHTML, "</p></article>")
		}
		paginator(h, v.Pages)
	})
}

func paginator(h *writer, pages []PageLink) {
	if len(pages) < 2 {
		return
	}
	h.raw(`<nav class="pagination" aria-label="Pagination"><ul class="pagination__list">`)
	for _, p := range pages {
		class := "pagination__item"
		if p.Current {
			class += " pagination__item--selected"
		}
		h.raw("<li")
		h.attr("class", class)
		h.raw(">")
		if p.Current {
			h.element("span", "pagination__link", p.Label)
		} else {
			h.link(p.Href, "pagination__link", p.Label)
		}
		h.raw("</li>")
	}
	h.raw("</ul></nav>")
}
