package dejasite

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dejaos/dejasite/markdown"
)

// ErrNotFound is returned when a requested post or image does not exist.
var ErrNotFound = errors.New("dejasite: not found")

// postSnapshot is an immutable view of the published posts, newest first.
type postSnapshot struct {
	posts   []BlogPost
	bySlug  map[string]int
	byTag   map[string][]int
	tags    []string
	fetched time.Time
}

func newSnapshot(posts []BlogPost) *postSnapshot {
	s := &postSnapshot{
		posts:   posts,
		bySlug:  make(map[string]int, len(posts)),
		byTag:   map[string][]int{},
		fetched: time.Now(),
	}
	for i := range posts {
		posts[i].ReadingTime = markdown.ReadingTime(posts[i].Content)
		s.bySlug[posts[i].Slug] = i
		for _, t := range posts[i].Tags {
			t = normalizeTag(t)
			if t == "" || slices.Contains(s.byTag[t], i) {
				continue
			}
			s.byTag[t] = append(s.byTag[t], i)
		}
	}
	for t := range s.byTag {
		s.tags = append(s.tags, t)
	}
	slices.Sort(s.tags)
	return s
}

// PostCache serves published posts from memory. A snapshot is rebuilt from
// the Store after the TTL or an Invalidate; readers never block on each
// other.
type PostCache struct {
	store *Store
	ttl   time.Duration

	snap   atomic.Pointer[postSnapshot]
	loadMu sync.Mutex
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

// Invalidate drops the snapshot so the next read reloads from the Store.
func (c *PostCache) Invalidate() {
	c.snap.Store(nil)
}

func (c *PostCache) fresh(s *postSnapshot) bool {
	return s != nil && time.Since(s.fetched) < c.ttl
}

// snapshot returns a fresh snapshot, loading one if needed. Concurrent
// misses share a single Store query.
func (c *PostCache) snapshot() (*postSnapshot, error) {
	if s := c.snap.Load(); c.fresh(s) {
		return s, nil
	}
	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	if s := c.snap.Load(); c.fresh(s) {
		return s, nil
	}
	posts, err := c.store.ListPosts("")
	if err != nil {
		return nil, err
	}
	s := newSnapshot(posts)
	c.snap.Store(s)
	return s, nil
}

// ListPosts returns published posts, optionally filtered by tag.
func (c *PostCache) ListPosts(tag string) ([]BlogPost, error) {
	s, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return s.posts, nil
	}
	idx := s.byTag[normalizeTag(tag)]
	out := make([]BlogPost, len(idx))
	for i, n := range idx {
		out[i] = s.posts[n]
	}
	return out, nil
}

// Page returns the posts of the 1-based page n and the number of pages.
// There is always at least one page.
func (c *PostCache) Page(n, perPage int) ([]BlogPost, int, error) {
	s, err := c.snapshot()
	if err != nil {
		return nil, 0, err
	}
	pages := max((len(s.posts)+perPage-1)/perPage, 1)
	if n < 1 || n > pages {
		return nil, pages, ErrNotFound
	}
	end := min(n*perPage, len(s.posts))
	return s.posts[(n-1)*perPage : end], pages, nil
}

// Tags returns the sorted tags of published posts.
func (c *PostCache) Tags() ([]string, error) {
	s, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	return s.tags, nil
}

// GetPost returns a published post by slug.
func (c *PostCache) GetPost(slug string) (BlogPost, error) {
	s, err := c.snapshot()
	if err != nil {
		return BlogPost{}, err
	}
	i, ok := s.bySlug[slug]
	if !ok {
		return BlogPost{}, ErrNotFound
	}
	return s.posts[i], nil
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
