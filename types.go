package dejasite

import "github.com/dejaos/dejasite/views"

// BlogPost is the core content type stored in SQLite and rendered by templates.
type BlogPost = views.BlogPost

// Image is the metadata of an uploaded image.
type Image = views.Image

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta = views.PageMeta
