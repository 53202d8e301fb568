package views

import (
	"strconv"

	"github.com/a-h/templ"
)

func adminShell(title string, body templ.Component) templ.Component {
	return component(func(h *writer) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><meta name="robots" content="noindex">`)
		h.element("title", "", title)
		h.raw(`<link rel="stylesheet" href="/assets/site.css"></head><body class="admin">`)
		h.render(body)
		h.raw("</body></html>")
	})
}

func csrfField(h *writer, token string) {
	h.raw(`<input type="hidden" name="_csrf"`)
	h.attr("value", token)
	h.raw(">")
}

// AdminLogin renders the password form.
func AdminLogin(showError bool, csrfToken string) templ.Component {
	return adminShell("Admin login", component(func(h *writer) {
		h.raw(`<main class="admin-login"><h1>Admin</h1>`)
		if showError {
			h.element("p", "admin-error", "Invalid password.")
		}
		h.raw(`<form method="post" action="/admin/login">`)
		csrfField(h, csrfToken)
		h.raw(`<label>Password <input type="password" name="password" required autofocus></label>`)
		h.raw(`<button type="submit" class="button button--primary">Log in</button></form></main>`)
	}))
}

// AdminDashboard lists every post with an empty editor form.
func AdminDashboard(posts []BlogPost, message, csrfToken string) templ.Component {
	return adminShell("Admin", component(func(h *writer) {
		h.raw(`<main class="admin-dashboard"><header><h1>Posts</h1>`)
		h.raw(`<nav><a href="/admin/images">Images</a> <form method="post" action="/admin/logout" class="inline">`)
		csrfField(h, csrfToken)
		h.raw(`<button type="submit">Log out</button></form></nav></header>`)
		if message != "" {
			h.element("p", "admin-message", message)
		}
		h.raw(`<table class="admin-posts"><thead><tr><th>Title</th><th>Date</th><th>Status</th><th></th></tr></thead><tbody>`)
		for _, p := range posts {
			h.raw("<tr>")
			h.element("td", "", p.Title)
			h.element("td", "", p.Date)
			status := "draft"
			if p.Published {
				status = "published"
			}
			h.element("td", "", status)
			h.raw("<td>")
			h.link("/admin/post/"+PathEscape(p.Slug), "", "Edit")
			h.raw(`<form method="post" class="inline"`)
			h.attr("action", "/admin/post/"+PathEscape(p.Slug)+"/delete")
			h.raw(">")
			csrfField(h, csrfToken)
			h.raw(`<button type="submit">Delete</button></form></td></tr>`)
		}
		h.raw("</tbody></table>")
		h.render(AdminForm(BlogPost{Published: true}, csrfToken))
		h.raw("</main>")
	}))
}

// AdminForm renders the post editor.
func AdminForm(post BlogPost, csrfToken string) templ.Component {
	return component(func(h *writer) {
		h.raw(`<form method="post" action="/admin/save" class="admin-form">`)
		csrfField(h, csrfToken)
		field := func(label, name, value string) {
			h.raw("<label>")
			h.text(label)
			h.raw(` <input type="text"`)
			h.attr("name", name)
			h.attr("value", value)
			h.raw("></label>")
		}
		field("Title", "title", post.Title)
		field("Slug", "slug", post.Slug)
		field("Date", "date", post.Date)
		field("Tags", "tags", JoinTags(post.Tags))
		h.raw(`<label>Summary <textarea name="summary" rows="3">`)
		h.text(post.Summary)
		h.raw(`</textarea></label><label>Content <textarea name="content" rows="20">`)
		h.text(post.Content)
		h.raw(`</textarea></label><label><input type="checkbox" name="published" value="1"`)
		h.flag("checked", post.Published)
		h.raw(`> Published</label><button type="submit" class="button button--primary">Save</button></form>`)
	})
}

// AdminImages lists uploaded images with an upload form.
func AdminImages(images []Image, csrfToken string) templ.Component {
	return adminShell("Images", component(func(h *writer) {
		h.raw(`<main class="admin-images"><h1>Images</h1><p><a href="/admin">Back to posts</a></p>`)
		h.raw(`<form method="post" action="/admin/images/upload" enctype="multipart/form-data">`)
		csrfField(h, csrfToken)
		h.raw(`<input type="file" name="image" accept="image/*" required><button type="submit">Upload</button></form><ul class="admin-image-list">`)
		for _, img := range images {
			src := "/public/uploads/" + PathEscape(img.Filename)
			h.raw("<li><img")
			h.attr("src", src)
			h.attr("alt", img.OriginalName)
			h.attr("width", strconv.Itoa(img.Width))
			h.attr("height", strconv.Itoa(img.Height))
			h.raw(` loading="lazy"><code>`)
			h.text(src)
			h.raw(`</code><form method="post" class="inline"`)
			h.attr("action", "/admin/images/"+PathEscape(img.Filename)+"/delete")
			h.raw(">")
			csrfField(h, csrfToken)
			h.raw(`<button type="submit">Delete</button></form></li>`)
		}
		h.raw("</ul></main>")
	}))
}
