package views

import (
	"fmt"
	"path"
	"strings"

	"github.com/a-h/templ"

	"github.com/dejaos/dejasite/markdown"
)

// BlogListPage renders one page of the blog index.
func BlogListPage(site Site, meta PageMeta, list BlogList) templ.Component {
	return Layout(site, meta, blogWrapper(list.Sidebar, func(h *writer) {
		h.raw(`<div class="blog-list">`)
		h.raw(`<h3 class="es-big-title">`)
		// The heading breaks after its first sentence on narrow screens.
		if first, rest, ok := strings.Cut(list.Heading, ". "); ok {
			h.text(first + ".")
			h.raw(" <wbr> ")
			h.text(rest)
		} else {
			h.text(list.Heading)
		}
		h.raw("</h3>")
		h.raw(`<div class="es-blog-grid">`)
		for _, p := range list.Posts {
			blogItem(h, p, list)
		}
		h.raw("</div>")
		if list.Newer != "" || list.Older != "" {
			h.raw(`<nav class="pagination-nav" aria-label="Blog list page navigation">`)
			if list.Newer != "" {
				h.link(list.Newer, "pagination-nav__link pagination-nav__link--prev", list.NewerLabel)
			}
			if list.Older != "" {
				h.link(list.Older, "pagination-nav__link pagination-nav__link--next", list.OlderLabel)
			}
			h.raw("</nav>")
		}
		if len(list.Tags) > 0 {
			h.raw(`<aside class="blog-tag-index">`)
			h.element("h4", "", list.TagsTitle)
			tagList(h, list.Tags, list.TagBase)
			h.raw("</aside>")
		}
		h.raw("</div>")
	}))
}

// blogWrapper places main beside the recent posts sidebar.
func blogWrapper(sb BlogSidebar, main func(h *writer)) templ.Component {
	return component(func(h *writer) {
		h.raw(`<div class="container margin-vert--lg blog-wrapper">`)
		if len(sb.Posts) > 0 {
			h.raw(`<aside class="blog-sidebar"><nav aria-label="Blog recent posts navigation">`)
			h.element("div", "blog-sidebar__title", sb.Title)
			h.raw(`<ul class="blog-sidebar__list">`)
			for _, p := range sb.Posts {
				class := "blog-sidebar__link"
				if p.Link == sb.Current {
					class += " blog-sidebar__link--active"
				}
				h.raw(`<li class="blog-sidebar__item">`)
				h.link(p.Link, class, p.Title)
				h.raw("</li>")
			}
			h.raw("</ul></nav></aside>")
		}
		h.raw(`<main class="blog-main">`)
		main(h)
		h.raw("</main></div>")
	})
}

func blogItem(h *writer, p BlogPost, list BlogList) {
	h.raw(`<article class="blog-item">`)
	h.raw(`<h2 class="blog-item__title">`)
	h.link(p.Link, "", p.Title)
	h.raw("</h2>")
	h.raw(`<div class="blog-item__meta"><time`)
	h.attr("datetime", p.Date)
	h.raw(">")
	h.text(p.Date)
	h.raw("</time>")
	if list.ShowReadingTime && p.ReadingTime > 0 {
		format := orDefault(list.ReadTimeFormat, "%d min read")
		h.raw(" · ")
		h.element("span", "blog-item__reading-time", fmt.Sprintf(format, p.ReadingTime))
	}
	h.raw("</div>")
	if p.Summary != "" {
		h.element("p", "blog-item__summary", p.Summary)
	}
	tagList(h, p.Tags, tagBase(p.Link))
	h.raw("</article>")
}

// tagBase derives the tag index path from a post link: /zh/blog/x ->
// /zh/blog/tags/.
func tagBase(postLink string) string {
	return strings.TrimSuffix(path.Dir(postLink), "/") + "/tags/"
}

func tagList(h *writer, tags []string, base string) {
	if len(tags) == 0 {
		return
	}
	h.raw(`<ul class="blog-tags">`)
	for _, t := range tags {
		h.raw("<li>")
		h.link(base+PathEscape(t), "blog-tag", t)
		h.raw("</li>")
	}
	h.raw("</ul>")
}

// BlogPostPage renders a single post with related posts and the recent
// posts sidebar.
func BlogPostPage(site Site, meta PageMeta, post BlogPost, related []BlogPost, sidebar BlogSidebar) templ.Component {
	return Layout(site, meta, blogWrapper(sidebar, func(h *writer) {
		h.raw(`<article class="blog-post">`)
		h.element("h1", "", post.Title)
		h.raw(`<div class="blog-item__meta"><time`)
		h.attr("datetime", post.Date)
		h.raw(">")
		h.text(post.Date)
		h.raw("</time>")
		if post.ReadingTime > 0 {
			h.raw(" · ")
			h.element("span", "blog-item__reading-time", fmt.Sprintf(site.t("theme.blog.post.readingTime", "%d min read"), post.ReadingTime))
		}
		h.raw("</div>")
		tagList(h, post.Tags, tagBase(post.Link))
		h.raw(`<div class="markdown">`)
		h.render(markdown.Markdown(post.Content))
		h.raw("</div>")
		if len(related) > 0 {
			h.raw(`<aside class="blog-related">`)
			h.element("h2", "", site.t("theme.blog.related", "Related posts"))
			h.raw("<ul>")
			for _, r := range related {
				h.raw("<li>")
				h.link(r.Link, "", r.Title)
				h.raw("</li>")
			}
			h.raw("</ul></aside>")
		}
		h.raw("</article>")
	}))
}
