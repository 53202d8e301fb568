package views

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/dejaos/dejasite/catalog"
)

// imageFallbackJS switches a card to its placeholder when the browser fails
// to load the image. The transition is one way.
const imageFallbackJS = "this.hidden=true;this.nextElementSibling.hidden=false;this.closest('[data-image-state]').dataset.imageState='placeholder'"

// ImageSrc returns the URL for a catalog image reference. Site-relative
// references are rooted at "/".
func ImageSrc(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return "/" + strings.TrimPrefix(ref, "/")
}

// DevicesPage renders the device catalog page.
func DevicesPage(site Site, meta PageMeta, grid *catalog.Grid) templ.Component {
	return Layout(site, meta, component(func(h *writer) {
		h.element("h3", "es-big-title", grid.Page.Heading)
		h.render(DeviceGrid(grid))
	}))
}

// DeviceGrid renders device cards with image, description, specifications
// and the purchase action.
func DeviceGrid(grid *catalog.Grid) templ.Component {
	return component(func(h *writer) {
		imageLabel := orDefault(grid.Page.ImageLabel, "Image")
		specsHeading := orDefault(grid.Page.SpecsHeading, "Specifications:")
		actionLabel := orDefault(grid.Page.ActionLabel, "Purchase Now")

		h.raw(`<div class="container margin-vert--xl"><div class="row catalog-grid" data-catalog="devices">`)
		for _, c := range grid.Cards {
			openCard(h, c, "col col--6 margin-bottom--lg catalog-card")
			h.raw(`<div class="card">`)
			h.raw(`<div class="card__header">`)
			h.element("h3", "", c.Title)
			h.raw("</div>")
			h.raw(`<div class="card__image">`)
			cardImage(h, c, strings.TrimSpace(c.Title+" "+imageLabel))
			h.raw("</div>")
			h.raw(`<div class="card__body">`)
			if c.Description != "" {
				h.element("p", "", c.Description)
			}
			if rows := c.SpecRows(); len(rows) > 0 {
				h.raw(`<div class="margin-top--md">`)
				h.element("h4", "", specsHeading)
				h.raw(`<ul class="catalog-specs">`)
				for _, sp := range rows {
					h.raw("<li")
					h.attr("data-spec", sp.Key)
					h.raw("><strong>")
					h.text(sp.Label + ":")
					h.raw("</strong> ")
					h.text(sp.Value)
					h.raw("</li>")
				}
				h.raw("</ul></div>")
			}
			h.raw("</div>")
			if href, ok := c.Action(); ok {
				h.raw(`<div class="card__footer">`)
				h.externalLink(href, "button button--primary button--block catalog-action", actionLabel)
				h.raw("</div>")
			}
			h.raw("</div></div>")
		}
		h.raw("</div></div>")
	})
}

// ShowcasePage renders the showcase heading, grid and call to action.
func ShowcasePage(site Site, meta PageMeta, grid *catalog.Grid, cta ShowcaseCTA) templ.Component {
	return Layout(site, meta, component(func(h *writer) {
		h.element("h1", "es-big-title es-h-center", grid.Page.Heading)
		if grid.Page.Subtitle != "" {
			h.element("p", "es-big-subtitle es-text-center es-h-center", grid.Page.Subtitle)
		}
		h.render(ShowcaseGrid(grid))
		if cta.ButtonURL != "" {
			h.raw(`<section class="es-cta-image-button">`)
			h.element("h2", "", cta.Title)
			h.externalLink(cta.ButtonURL, "button button--primary", cta.ButtonLabel)
			if cta.ImageURL != "" {
				h.raw("<img")
				h.attr("src", cta.ImageURL)
				h.raw(` alt="" loading="lazy">`)
			}
			h.raw("</section>")
		}
	}))
}

// ShowcaseGrid renders showcase cards in the grid's display order.
func ShowcaseGrid(grid *catalog.Grid) templ.Component {
	return component(func(h *writer) {
		actionLabel := orDefault(grid.Page.ActionLabel, "View project")
		h.raw(`<div class="es-showcase-grid catalog-grid" data-catalog="showcase">`)
		for _, c := range grid.Cards {
			openCard(h, c, "es-showcase-card catalog-card")
			h.raw(`<div class="es-showcase-card__image">`)
			cardImage(h, c, c.Title)
			h.raw("</div>")
			h.element("h3", "es-showcase-card__title", c.Title)
			if c.Description != "" {
				h.element("p", "es-showcase-card__description", c.Description)
			}
			if href, ok := c.Action(); ok {
				h.externalLink(href, "es-showcase-card__link catalog-action", actionLabel)
			}
			h.raw("</div>")
		}
		h.raw("</div>")
	})
}

func openCard(h *writer, c *catalog.Card, class string) {
	h.raw("<div")
	h.attr("class", class)
	h.attr("data-id", c.ID)
	h.attr("data-image-state", c.Image().String())
	h.raw(">")
}

// cardImage writes the image and its same-sized placeholder. Exactly one of
// the two is visible.
func cardImage(h *writer, c *catalog.Card, placeholder string) {
	failed := c.Image() == catalog.PlaceholderShown
	if c.ImageRef != "" {
		h.raw(`<img class="catalog-image"`)
		h.attr("src", ImageSrc(c.ImageRef))
		h.attr("alt", c.Title)
		h.raw(` loading="lazy"`)
		h.attr("onerror", imageFallbackJS)
		h.flag("hidden", failed)
		h.raw(">")
	}
	h.raw(`<div class="catalog-placeholder"`)
	h.flag("hidden", !failed)
	h.raw(">")
	h.text(placeholder)
	h.raw("</div>")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
