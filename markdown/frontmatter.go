package markdown

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the YAML header of a Markdown document.
type FrontMatter struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	SidebarLabel    string   `yaml:"sidebar_label"`
	SidebarPosition int      `yaml:"sidebar_position"`
	Description     string   `yaml:"description"`
	Slug            string   `yaml:"slug"`
	Tags            []string `yaml:"tags"`
	Authors         []string `yaml:"authors"`
	Date            string   `yaml:"date"`
	Draft           bool     `yaml:"draft"`
	HideTitle       bool     `yaml:"hide_title"`
}

// Document is a parsed Markdown file.
type Document struct {
	Front FrontMatter
	Body  string
}

// Parse splits src into front matter and body.
func Parse(src string) (Document, error) {
	fm, body := splitFrontMatter(src)
	var doc Document
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &doc.Front); err != nil {
			return Document{}, fmt.Errorf("markdown: parse front matter: %w", err)
		}
	}
	doc.Body = body
	return doc, nil
}

// ParsedDate parses the front matter date, or returns the zero time.
func (f FrontMatter) ParsedDate() time.Time {
	return ParseDate(f.Date)
}

// ParseDate accepts RFC 3339 and the common date-only layouts.
func ParseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n")
		}
	}
	return "", input
}
