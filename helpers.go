package dejasite

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/dejaos/dejasite/views"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments. The result never ends in a
// slash unless it is the bare origin.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, path.Join(pathSegments...))
	if u.Path == "/" {
		u.Path = ""
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// pageLinks returns paginator entries for 1-based page current of total,
// showing at most window pages around current. href maps a page number to
// its URL.
func pageLinks(current, total, window int, href func(n int) string) []views.PageLink {
	if total < 2 {
		return nil
	}
	start := max(current-window/2, 1)
	end := min(start+window-1, total)
	start = max(end-window+1, 1)
	links := make([]views.PageLink, 0, end-start+1)
	for n := start; n <= end; n++ {
		links = append(links, views.PageLink{
			Label:   strconv.Itoa(n),
			Href:    href(n),
			Current: n == current,
		})
	}
	return links
}
