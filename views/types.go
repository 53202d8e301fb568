package views

import "github.com/dejaos/dejasite/sidebar"

// Site holds the per-request, locale-resolved settings every page needs.
type Site struct {
	Title       string
	Tagline     string
	URL         string // canonical origin, e.g. https://dejaos.github.io
	Favicon     string
	Locale      string
	HomeHref    string // "/" or "/zh"
	LogoSrc     string
	LogoAlt     string
	Navbar      []NavItem
	Locales     []LocaleLink
	Footer      *Footer // nil renders no footer
	GtagID      string
	AnonymizeIP bool

	// Translate looks up a UI string for Locale. Nil returns def.
	Translate func(id, def string) string
}

func (s Site) t(id, def string) string {
	if s.Translate == nil {
		return def
	}
	return s.Translate(id, def)
}

// NavItem is one navbar entry.
type NavItem struct {
	Label     string
	Href      string
	ClassName string
	AriaLabel string
	Position  string // "left" or "right"
	External  bool
	Active    bool
}

// LocaleLink points at the current page in another locale.
type LocaleLink struct {
	Locale string
	Label  string
	Href   string
	Active bool
}

// Footer is the site footer override.
type Footer struct {
	Copyright  string
	RecordText string
	RecordURL  string
	Company    string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
	Keywords    []string
	JSONLD      string
}

// BlogPost is the core content type stored in SQLite and rendered by templates.
type BlogPost struct {
	Title       string
	Date        string
	Tags        []string
	Summary     string
	Link        string
	Slug        string
	Content     string
	Published   bool
	ReadingTime int // minutes, filled in by the list handler
}

// Image is an uploaded image's metadata.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// PageLink is one paginator entry.
type PageLink struct {
	Label   string
	Href    string
	Current bool
}

// Hero is the homepage banner.
type Hero struct {
	Title       string
	Subtitle    string
	ButtonLabel string
	ButtonURL   string
	ImageURL    string
}

// ImageAndText is a text block beside an illustration.
type ImageAndText struct {
	Title    string
	Text     string
	ImageURL string
}

// CtaCard is one call-to-action card.
type CtaCard struct {
	Text        string
	ButtonLabel string
	ButtonURL   string
}

// CtaCards is a titled row of call-to-action cards. ID becomes the anchor.
type CtaCards struct {
	ID       string
	Title    string
	Subtitle string
	Cards    []CtaCard
}

// TextCard is a title with a paragraph.
type TextCard struct {
	Title    string
	Subtitle string
}

// TextCards is a titled grid of text cards.
type TextCards struct {
	Title    string
	Subtitle string
	Cards    []TextCard
}

// FeatureShowcase is a large image with a title and text.
type FeatureShowcase struct {
	Title    string
	Text     string
	ImageURL string
}

// Home lists the homepage blocks in display order.
type Home struct {
	Hero         Hero
	ImageAndText ImageAndText
	GetStarted   CtaCards
	Features     TextCards
	Showcase     FeatureShowcase
	Technical    TextCards
}

// ShowcaseCTA is the block under the showcase grid.
type ShowcaseCTA struct {
	Title       string
	ButtonLabel string
	ButtonURL   string
	ImageURL    string
}

// SearchView is the search page state.
type SearchView struct {
	Heading     string
	Placeholder string
	Query       string
	Hits        []SearchHit
	Total       int
	Pages       []PageLink
	EmptyText   string // shown when Query is empty
	NoResults   string
	Error       string
}

// SearchHit is a search hit with its display URL already resolved.
type SearchHit struct {
	URL       string
	Lvl0      string
	Lvl2      string
	TitleHTML string // sanitized
	TextHTML  string // sanitized
}

// BlogList is one page of the blog index.
type BlogList struct {
	Heading         string
	Posts           []BlogPost
	Newer           string
	Older           string
	NewerLabel      string
	OlderLabel      string
	ShowReadingTime bool
	ReadTimeFormat  string // e.g. "%d min read"
	Tags            []string
	TagsTitle       string
	TagBase         string // e.g. "/zh/blog/tags/"
	Sidebar         BlogSidebar
}

// BlogSidebar lists the most recent posts beside blog pages.
type BlogSidebar struct {
	Title   string
	Posts   []BlogPost
	Current string // link of the post being viewed, if any
}

// DocView is a documentation page with its sidebar.
type DocView struct {
	Title     string
	ShowTitle bool
	HTML      string // sanitized
	Sidebar   []sidebar.Node
	Prev      *PagerLink
	Next      *PagerLink
	Notice    string // e.g. untranslated page notice
	PrevLabel string
	NextLabel string
}

// PagerLink points at a neighbouring doc.
type PagerLink struct {
	Label string
	Href  string
}
