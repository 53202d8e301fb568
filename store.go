package dejasite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "modernc.org/sqlite"
)

// Store keeps blog posts, their tags and uploaded image metadata in SQLite.
type Store struct {
	db *sql.DB
}

// Connection pragmas are passed in the DSN so every pooled connection gets
// them, not only the first.
const sqlitePragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)" +
	"&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)"

// migrations are applied in order; PRAGMA user_version records how many ran.
var migrations = []string{
	`CREATE TABLE posts (
		slug TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		date TEXT NOT NULL,
		summary TEXT NOT NULL,
		content TEXT NOT NULL,
		published INTEGER NOT NULL DEFAULT 1
	);
	CREATE TABLE post_tags (
		slug TEXT NOT NULL REFERENCES posts(slug) ON DELETE CASCADE,
		tag TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (slug, tag)
	);
	CREATE TABLE images (
		filename TEXT PRIMARY KEY,
		original_name TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		size INTEGER NOT NULL,
		uploaded_at TEXT NOT NULL
	);`,
	`CREATE INDEX posts_published_date ON posts (published, date DESC);
	CREATE INDEX post_tags_tag ON post_tags (tag);`,
}

// NewStore opens (or creates) the database at path and brings its schema up
// to date.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path+sqlitePragmas)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return err
	}
	for i := version; i < len(migrations); i++ {
		err := s.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
				return err
			}
			// PRAGMA does not take bind parameters.
			_, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, i+1))
			return err
		})
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// postQuery selects posts; where is appended verbatim and must use ? args.
func (s *Store) postQuery(where string, args ...any) ([]BlogPost, error) {
	q := `SELECT slug, title, date, summary, content, published FROM posts`
	if where != "" {
		q += " WHERE " + where
	}
	rows, err := s.db.Query(q+` ORDER BY date DESC, slug`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		var p BlogPost
		if err := rows.Scan(&p.Slug, &p.Title, &p.Date, &p.Summary, &p.Content, &p.Published); err != nil {
			return nil, err
		}
		p.Link = "/blog/" + p.Slug
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, s.attachTags(posts)
}

// attachTags fills Tags for posts with one query.
func (s *Store) attachTags(posts []BlogPost) error {
	if len(posts) == 0 {
		return nil
	}
	index := make(map[string]int, len(posts))
	for i, p := range posts {
		index[p.Slug] = i
	}
	rows, err := s.db.Query(`SELECT slug, tag FROM post_tags ORDER BY slug, position`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var slug, tag string
		if err := rows.Scan(&slug, &tag); err != nil {
			return err
		}
		if i, ok := index[slug]; ok {
			posts[i].Tags = append(posts[i].Tags, tag)
		}
	}
	return rows.Err()
}

func (s *Store) onePost(where string, args ...any) (BlogPost, error) {
	posts, err := s.postQuery(where, args...)
	if err != nil {
		return BlogPost{}, err
	}
	if len(posts) == 0 {
		return BlogPost{}, ErrNotFound
	}
	return posts[0], nil
}

// ListPosts returns published posts, newest first, optionally only those
// carrying tag.
func (s *Store) ListPosts(tag string) ([]BlogPost, error) {
	if tag == "" {
		return s.postQuery(`published = 1`)
	}
	return s.postQuery(`published = 1 AND slug IN (SELECT slug FROM post_tags WHERE tag = ?)`, normalizeTag(tag))
}

// ListAllPosts returns every post including drafts, newest first.
func (s *Store) ListAllPosts() ([]BlogPost, error) {
	return s.postQuery("")
}

// GetPost returns a published post by slug.
func (s *Store) GetPost(slug string) (BlogPost, error) {
	return s.onePost(`slug = ? AND published = 1`, slug)
}

// GetPostAny returns a post by slug whether or not it is published.
func (s *Store) GetPostAny(slug string) (BlogPost, error) {
	return s.onePost(`slug = ?`, slug)
}

// SavePost inserts or replaces p and its tags. Tags are stored lowercased,
// deduplicated, in their given order.
func (s *Store) SavePost(p BlogPost) error {
	var tags []string
	for _, t := range p.Tags {
		if t = normalizeTag(t); t != "" && !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	return s.inTx(context.Background(), func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO posts (slug, title, date, summary, content, published)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (slug) DO UPDATE SET title = excluded.title, date = excluded.date,
				summary = excluded.summary, content = excluded.content, published = excluded.published`,
			p.Slug, p.Title, p.Date, p.Summary, p.Content, p.Published)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM post_tags WHERE slug = ?`, p.Slug); err != nil {
			return err
		}
		for i, t := range tags {
			if _, err := tx.Exec(`INSERT INTO post_tags (slug, tag, position) VALUES (?, ?, ?)`, p.Slug, t, i); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeletePost removes a post and its tags. Deleting a missing post is not an
// error.
func (s *Store) DeletePost(slug string) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE slug = ?`, slug)
	return err
}

// SaveImage records an uploaded image.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// ListImages returns every uploaded image, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at
		FROM images ORDER BY uploaded_at DESC, filename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// ImageExists reports whether filename is recorded.
func (s *Store) ImageExists(filename string) (bool, error) {
	var found int
	err := s.db.QueryRow(`SELECT 1 FROM images WHERE filename = ?`, filename).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// DeleteImage removes an image record.
func (s *Store) DeleteImage(filename string) error {
	res, err := s.db.Exec(`DELETE FROM images WHERE filename = ?`, filename)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ParseTags splits a comma-separated tag list, trimming blanks.
func ParseTags(list string) []string {
	var tags []string
	for _, t := range strings.Split(list, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
