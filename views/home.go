package views

import "github.com/a-h/templ"

// HomePage renders the marketing homepage blocks in order.
func HomePage(site Site, meta PageMeta, home Home) templ.Component {
	return Layout(site, meta, component(func(h *writer) {
		hero(h, home.Hero)
		imageAndText(h, home.ImageAndText)
		ctaCards(h, home.GetStarted)
		textCards(h, "features", home.Features)
		featureShowcase(h, home.Showcase)
		textCards(h, "technical", home.Technical)
	}))
}

func hero(h *writer, b Hero) {
	h.raw(`<section class="es-hero es-gray">`)
	h.raw(`<div class="es-hero__text">`)
	h.element("h1", "es-hero__title", b.Title)
	h.element("p", "es-hero__subtitle", b.Subtitle)
	if b.ButtonLabel != "" {
		h.link(b.ButtonURL, "button button--primary button--lg", b.ButtonLabel)
	}
	h.raw("</div>")
	if b.ImageURL != "" {
		h.raw(`<img class="es-hero__image"`)
		h.attr("src", b.ImageURL)
		h.attr("alt", b.Title)
		h.raw(` fetchpriority="high">`)
	}
	h.raw("</section>")
}

func imageAndText(h *writer, b ImageAndText) {
	h.raw(`<section class="es-image-and-text es-gray">`)
	if b.ImageURL != "" {
		h.raw("<img")
		h.attr("src", b.ImageURL)
		h.attr("alt", b.Title)
		h.raw(` loading="lazy">`)
	}
	h.raw("<div>")
	h.element("h2", "", b.Title)
	h.element("p", "", b.Text)
	h.raw("</div></section>")
}

func ctaCards(h *writer, b CtaCards) {
	h.raw(`<section class="es-cta-cards"`)
	if b.ID != "" {
		h.attr("id", b.ID)
	}
	h.raw(">")
	h.element("h2", "es-big-title", b.Title)
	h.element("p", "es-big-subtitle", b.Subtitle)
	h.raw(`<div class="es-cta-cards__grid">`)
	for _, c := range b.Cards {
		h.raw(`<div class="es-cta-card">`)
		h.element("p", "", c.Text)
		h.link(c.ButtonURL, "button button--secondary", c.ButtonLabel)
		h.raw("</div>")
	}
	h.raw("</div></section>")
}

func textCards(h *writer, name string, b TextCards) {
	h.raw(`<section class="es-text-cards"`)
	h.attr("data-block", name)
	h.raw(">")
	h.element("h2", "es-big-title", b.Title)
	h.element("p", "es-big-subtitle", b.Subtitle)
	h.raw(`<div class="es-text-cards__grid">`)
	for _, c := range b.Cards {
		h.raw(`<div class="es-text-card">`)
		h.element("h3", "", c.Title)
		h.element("p", "", c.Subtitle)
		h.raw("</div>")
	}
	h.raw("</div></section>")
}

func featureShowcase(h *writer, b FeatureShowcase) {
	h.raw(`<section class="es-feature-showcase es-gray">`)
	h.element("h2", "es-big-title", b.Title)
	h.element("p", "", b.Text)
	if b.ImageURL != "" {
		h.raw("<img")
		h.attr("src", b.ImageURL)
		h.attr("alt", b.Title)
		h.raw(` loading="lazy">`)
	}
	h.raw("</section>")
}
