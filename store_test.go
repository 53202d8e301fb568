package dejasite

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func savePosts(t *testing.T, s *Store, posts ...BlogPost) {
	t.Helper()
	for _, p := range posts {
		if err := s.SavePost(p); err != nil {
			t.Fatalf("SavePost(%s): %v", p.Slug, err)
		}
	}
}

func TestSaveAndGetPost(t *testing.T) {
	s := newTestStore(t)
	savePosts(t, s, BlogPost{
		Slug:      "dejaos-2-1",
		Title:     "DejaOS 2.1",
		Date:      "2025-03-01",
		Tags:      []string{"Release", " modules "},
		Summary:   "What is new",
		Content:   "# DejaOS 2.1",
		Published: true,
	})

	got, err := s.GetPost("dejaos-2-1")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.Title != "DejaOS 2.1" || got.Date != "2025-03-01" || got.Content != "# DejaOS 2.1" {
		t.Fatalf("unexpected post: %+v", got)
	}
	if want := []string{"release", "modules"}; !reflect.DeepEqual(got.Tags, want) {
		t.Fatalf("tags = %v, want %v", got.Tags, want)
	}
	if !got.Published {
		t.Fatalf("expected published post")
	}
}

func TestSavePostReplaces(t *testing.T) {
	s := newTestStore(t)
	savePosts(t, s,
		BlogPost{Slug: "p", Title: "Old", Date: "2025-01-01", Published: true},
		BlogPost{Slug: "p", Title: "New", Date: "2025-01-02", Published: true},
	)
	all, err := s.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts: %v", err)
	}
	if len(all) != 1 || all[0].Title != "New" {
		t.Fatalf("expected one replaced post, got %+v", all)
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetPost("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetPostAny("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDraftsHiddenFromPublicQueries(t *testing.T) {
	s := newTestStore(t)
	savePosts(t, s,
		BlogPost{Slug: "live", Title: "Live", Date: "2025-01-01", Tags: []string{"go"}, Published: true},
		BlogPost{Slug: "draft", Title: "Draft", Date: "2025-02-01", Tags: []string{"secret"}},
	)

	if _, err := s.GetPost("draft"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("draft should not be public, got %v", err)
	}
	if p, err := s.GetPostAny("draft"); err != nil || p.Published {
		t.Fatalf("GetPostAny(draft) = %+v, %v", p, err)
	}
	posts, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 1 || posts[0].Slug != "live" {
		t.Fatalf("expected only the live post, got %+v", posts)
	}
	tags, err := NewPostCache(s, time.Minute).Tags()
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"go"}) {
		t.Fatalf("tags = %v, want [go]", tags)
	}
	all, err := s.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts: %v", err)
	}
	if len(all) != 2 || all[0].Slug != "draft" {
		t.Fatalf("expected both posts newest first, got %+v", all)
	}
}

func TestListPostsByTag(t *testing.T) {
	s := newTestStore(t)
	savePosts(t, s,
		BlogPost{Slug: "a", Title: "A", Date: "2025-01-01", Tags: []string{"release"}, Published: true},
		BlogPost{Slug: "b", Title: "B", Date: "2025-03-01", Tags: []string{"release", "nfc"}, Published: true},
		BlogPost{Slug: "c", Title: "C", Date: "2025-02-01", Tags: []string{"releases"}, Published: true},
	)

	tests := []struct {
		tag  string
		want []string
	}{
		{"release", []string{"b", "a"}},
		{"RELEASE", []string{"b", "a"}},
		{"nfc", []string{"b"}},
		{"none", nil},
		{"", []string{"b", "c", "a"}},
	}
	for _, tt := range tests {
		posts, err := s.ListPosts(tt.tag)
		if err != nil {
			t.Fatalf("ListPosts(%q): %v", tt.tag, err)
		}
		var got []string
		for _, p := range posts {
			got = append(got, p.Slug)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("ListPosts(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestDeletePost(t *testing.T) {
	s := newTestStore(t)
	savePosts(t, s, BlogPost{Slug: "gone", Title: "Gone", Date: "2025-01-01", Published: true})
	if err := s.DeletePost("gone"); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if _, err := s.GetPostAny("gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted post to be gone, got %v", err)
	}
	if err := s.DeletePost("never-existed"); err != nil {
		t.Fatalf("deleting a missing post should not fail: %v", err)
	}
}

func TestImages(t *testing.T) {
	s := newTestStore(t)
	img := Image{Filename: "board.jpg", OriginalName: "Board.PNG", Width: 800, Height: 600, Size: 1234, UploadedAt: "2025-01-01T00:00:00Z"}
	if err := s.SaveImage(img); err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	ok, err := s.ImageExists("board.jpg")
	if err != nil || !ok {
		t.Fatalf("ImageExists = %v, %v", ok, err)
	}
	images, err := s.ListImages()
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	if len(images) != 1 || images[0] != img {
		t.Fatalf("ListImages = %+v", images)
	}
	if err := s.DeleteImage("board.jpg"); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	if err := s.DeleteImage("board.jpg"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{",go,web,", []string{"go", "web"}},
		{"go, web", []string{"go", "web"}},
		{" , ,", nil},
		{"", nil},
	}
	for _, tt := range tests {
		if got := ParseTags(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("ParseTags(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReopenKeepsSchemaAndData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	savePosts(t, s, BlogPost{Slug: "kept", Title: "Kept", Date: "2025-01-01", Tags: []string{"go"}, Published: true})
	s.Close()

	s, err = NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil || version != len(migrations) {
		t.Fatalf("user_version = %d, %v; want %d", version, err, len(migrations))
	}
	p, err := s.GetPost("kept")
	if err != nil || !reflect.DeepEqual(p.Tags, []string{"go"}) {
		t.Fatalf("GetPost after reopen = %+v, %v", p, err)
	}
}

func TestDeletePostDropsTags(t *testing.T) {
	s := newTestStore(t)
	savePosts(t, s, BlogPost{Slug: "p", Title: "P", Date: "2025-01-01", Tags: []string{"go", "Go", "web"}, Published: true})
	p, err := s.GetPost("p")
	if err != nil || !reflect.DeepEqual(p.Tags, []string{"go", "web"}) {
		t.Fatalf("tags = %v, %v; want deduplicated [go web]", p.Tags, err)
	}
	if err := s.DeletePost("p"); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM post_tags`).Scan(&n); err != nil || n != 0 {
		t.Fatalf("post_tags rows = %d, %v; want 0", n, err)
	}
}
