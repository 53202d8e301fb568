package catalog

import (
	"net/url"
	"strings"
)

// ImageState is the display state of a card image.
type ImageState int

const (
	// ImageShown displays the item image.
	ImageShown ImageState = iota
	// PlaceholderShown hides the image and shows a same-sized placeholder
	// labelled with the item title. There is no way back.
	PlaceholderShown
)

func (s ImageState) String() string {
	if s == PlaceholderShown {
		return "placeholder"
	}
	return "image"
}

// Card is one cell of a Grid.
type Card struct {
	ResolvedItem
	image ImageState
}

// Image returns the current image state. Cards without an image reference
// start out showing the placeholder.
func (c *Card) Image() ImageState {
	return c.image
}

// ImageFailed records a load failure and switches the card to its placeholder.
func (c *Card) ImageFailed() {
	c.image = PlaceholderShown
}

// Action returns the normalized action URL and whether an action control
// should be rendered at all.
func (c *Card) Action() (string, bool) {
	return ActionURL(c.ActionURL)
}

// SpecRows returns the specs that produce a list row.
func (c *Card) SpecRows() Specs {
	return c.Specs.Visible()
}

// Grid is the display-ordered set of cards for one render pass.
type Grid struct {
	Locale string
	Page   PageText
	Cards  []*Card
}

// NewGrid orders res.Items with order (Identity when nil) and wraps each in a
// Card. res itself is not modified.
func NewGrid(res Resolution, order Orderer) *Grid {
	if order == nil {
		order = Identity
	}
	items := order(res.Items)
	g := &Grid{
		Locale: res.ResolvedLocale,
		Page:   res.Page,
		Cards:  make([]*Card, len(items)),
	}
	for i, it := range items {
		c := &Card{ResolvedItem: it}
		if strings.TrimSpace(it.ImageRef) == "" {
			c.image = PlaceholderShown
		}
		g.Cards[i] = c
	}
	return g
}

// Probe marks every card whose image available reports as unusable.
func (g *Grid) Probe(available func(ref string) bool) {
	if available == nil {
		return
	}
	for _, c := range g.Cards {
		if c.image == ImageShown && !available(c.ImageRef) {
			c.ImageFailed()
		}
	}
}

// IDs returns card ids in display order.
func (g *Grid) IDs() []string {
	ids := make([]string, len(g.Cards))
	for i, c := range g.Cards {
		ids[i] = c.ID
	}
	return ids
}

// ActionURL validates raw as an absolute http(s) URL with a host. Empty,
// relative or placeholder values such as "https://" are rejected.
func ActionURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Host == "" {
		return "", false
	}
	return u.String(), true
}
