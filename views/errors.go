package views

import "github.com/a-h/templ"

// NotFound renders the 404 page.
func NotFound(site Site) templ.Component {
	return Layout(site, PageMeta{Title: site.t("theme.NotFound.title", "Page Not Found")}, component(func(h *writer) {
		h.raw(`<div class="container margin-vert--xl error-page">`)
		h.element("h1", "", site.t("theme.NotFound.title", "Page Not Found"))
		h.element("p", "", site.t("theme.NotFound.p1", "We could not find what you were looking for."))
		h.link(site.HomeHref, "button button--primary", site.Title)
		h.raw("</div>")
	}))
}

// ServerError renders the 500 page.
func ServerError(site Site) templ.Component {
	return Layout(site, PageMeta{Title: site.t("theme.ErrorPage.title", "Error")}, component(func(h *writer) {
		h.raw(`<div class="container margin-vert--xl error-page">`)
		h.element("h1", "", site.t("theme.ErrorPage.heading", "Something went wrong"))
		h.element("p", "", site.t("theme.ErrorPage.retry", "Please try again later."))
		h.raw("</div>")
	}))
}
