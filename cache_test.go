package dejasite

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestPostCache(t *testing.T) {
	s := newTestStore(t)
	savePosts(t, s,
		BlogPost{Slug: "a", Title: "A", Date: "2025-01-01", Tags: []string{"Release"}, Content: "one two", Published: true},
		BlogPost{Slug: "b", Title: "B", Date: "2025-02-01", Tags: []string{"nfc", "release"}, Published: true},
		BlogPost{Slug: "c", Title: "C", Date: "2025-03-01", Published: true},
	)
	c := NewPostCache(s, time.Minute)

	page, pages, err := c.Page(1, 2)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if pages != 2 || len(page) != 2 || page[0].Slug != "c" {
		t.Fatalf("page 1 = %d posts of %d pages, first %q", len(page), pages, page[0].Slug)
	}
	if page, _, _ := c.Page(2, 2); len(page) != 1 || page[0].Slug != "a" {
		t.Fatalf("page 2 = %+v", page)
	}
	if _, _, err := c.Page(3, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("page 3 err = %v", err)
	}

	tagged, err := c.ListPosts("RELEASE")
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(tagged) != 2 || tagged[0].Slug != "b" || tagged[1].Slug != "a" {
		t.Fatalf("tagged = %+v", tagged)
	}
	tags, _ := c.Tags()
	if !reflect.DeepEqual(tags, []string{"nfc", "release"}) {
		t.Fatalf("tags = %v", tags)
	}
	post, err := c.GetPost("a")
	if err != nil || post.ReadingTime != 1 {
		t.Fatalf("GetPost(a) = %+v, %v", post, err)
	}

	// Writes are invisible until Invalidate.
	savePosts(t, s, BlogPost{Slug: "d", Title: "D", Date: "2025-04-01", Published: true})
	if _, err := c.GetPost("d"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected stale cache, got %v", err)
	}
	c.Invalidate()
	if _, err := c.GetPost("d"); err != nil {
		t.Fatalf("GetPost(d) after Invalidate: %v", err)
	}
}

func TestPostCacheEmptyStoreHasOnePage(t *testing.T) {
	c := NewPostCache(newTestStore(t), time.Minute)
	posts, pages, err := c.Page(1, 9)
	if err != nil || pages != 1 || len(posts) != 0 {
		t.Fatalf("Page(1) = %v, %d, %v", posts, pages, err)
	}
}
