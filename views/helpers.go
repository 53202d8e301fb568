package views

import (
	"cmp"
	"encoding/json"
	"net/url"
	"path"
	"slices"
	"strings"
)

// maxRelated caps the related posts shown under a post.
const maxRelated = 3

// buildURL joins path segments onto a base URL without a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, path.Join(pathSegments...))
	if u.Path == "/" && len(pathSegments) == 0 {
		u.Path = ""
	}
	return u.String()
}

func tagKey(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// FilterRelatedPosts returns up to three posts sharing tags with current,
// most shared tags first. Ties keep the order of posts.
func FilterRelatedPosts(current BlogPost, posts []BlogPost) []BlogPost {
	want := map[string]bool{}
	for _, t := range current.Tags {
		if k := tagKey(t); k != "" {
			want[k] = true
		}
	}
	type scored struct {
		post   BlogPost
		shared int
	}
	var hits []scored
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		seen := map[string]bool{}
		for _, t := range p.Tags {
			if k := tagKey(t); want[k] {
				seen[k] = true
			}
		}
		if len(seen) > 0 {
			hits = append(hits, scored{p, len(seen)})
		}
	}
	slices.SortStableFunc(hits, func(a, b scored) int { return cmp.Compare(b.shared, a.shared) })
	var out []BlogPost
	for _, h := range hits[:min(len(hits), maxRelated)] {
		out = append(out, h.post)
	}
	return out
}

// PathEscape wraps url.PathEscape for use in components.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// JoinTags formats a tag slice as a comma-separated string for form fields.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

type ldThing struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
	ID   string `json:"@id,omitempty"`
}

type ldWebSite struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Language    string `json:"inLanguage,omitempty"`
	Description string `json:"description,omitempty"`
}

type ldPosting struct {
	Context     string  `json:"@context"`
	Type        string  `json:"@type"`
	Headline    string  `json:"headline"`
	Description string  `json:"description,omitempty"`
	Published   string  `json:"datePublished,omitempty"`
	URL         string  `json:"url"`
	Language    string  `json:"inLanguage,omitempty"`
	Keywords    string  `json:"keywords,omitempty"`
	Publisher   ldThing `json:"publisher"`
	MainEntity  ldThing `json:"mainEntityOfPage"`
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block for the site.
func WebsiteJsonLD(site Site) string {
	return marshalJsonLD(ldWebSite{
		Context:     "https://schema.org",
		Type:        "WebSite",
		Name:        site.Title,
		URL:         buildURL(site.URL),
		Language:    site.Locale,
		Description: site.Tagline,
	})
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a
// post. post.Link, when set, is the locale-aware path of the post.
func BlogPostingJsonLD(site Site, post BlogPost) string {
	link := post.Link
	if link == "" {
		link = path.Join("/blog", url.PathEscape(post.Slug))
	}
	postURL := buildURL(site.URL, link)
	return marshalJsonLD(ldPosting{
		Context:     "https://schema.org",
		Type:        "BlogPosting",
		Headline:    post.Title,
		Description: post.Summary,
		Published:   post.Date,
		URL:         postURL,
		Language:    site.Locale,
		Keywords:    strings.Join(post.Tags, ", "),
		Publisher:   ldThing{Type: "Organization", Name: site.Title},
		MainEntity:  ldThing{Type: "WebPage", ID: postURL},
	})
}

func marshalJsonLD(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
