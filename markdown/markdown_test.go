package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func render(t *testing.T, input string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(&buf, input); err != nil {
		t.Fatalf("Render(%q) failed: %v", input, err)
	}
	return buf.String()
}

func TestRenderInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"**bold *italic* text**", "<strong>bold <em>italic</em> text</strong>"},
		{"use `dxGpio`", "<code>dxGpio</code>"},
	}
	for _, tt := range tests {
		if got := render(t, tt.input); !strings.Contains(got, tt.expected) {
			t.Errorf("Render(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderCodeBlockWithLanguage(t *testing.T) {
	got := render(t, "```js\nimport log from '../dxmodules/dxLogger.js'\n```")
	if !strings.Contains(got, `class="language-js"`) {
		t.Errorf("code block should keep language-js class: %q", got)
	}
	if !strings.Contains(got, "dxLogger.js") {
		t.Errorf("code block missing content: %q", got)
	}
}

func TestRenderHeadingsHaveIDs(t *testing.T) {
	got := render(t, "## Getting Started")
	if !strings.Contains(got, `<h2 id="getting-started">Getting Started</h2>`) {
		t.Errorf("heading = %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	got := render(t, "| Name | Value |\n|---|---|\n| CPU | ARM |\n")
	for _, want := range []string{"<table>", "<th>Name</th>", "<td>ARM</td>"} {
		if !strings.Contains(got, want) {
			t.Errorf("table output missing %q: %q", want, got)
		}
	}
}

func TestRenderStripsUnsafeHTML(t *testing.T) {
	tests := []string{
		"<script>alert(1)</script>",
		"[x](javascript:alert(1))",
		`<img src="x" onerror="alert(1)">`,
	}
	for _, input := range tests {
		got := render(t, input)
		if strings.Contains(got, "<script") || strings.Contains(got, "javascript:") || strings.Contains(got, "onerror") {
			t.Errorf("Render(%q) = %q, unsafe content survived", input, got)
		}
	}
}

func TestRenderImageLoading(t *testing.T) {
	got := render(t, "![a](/img/a.png)\n\n![b](/img/b.png)")
	first := strings.Index(got, `loading="eager"`)
	second := strings.Index(got, `loading="lazy"`)
	if first < 0 || second < 0 || first > second {
		t.Errorf("image loading attributes wrong: %q", got)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("- one\n- two").Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<li>one</li>") {
		t.Errorf("component output = %q", buf.String())
	}
}

func TestParseFrontMatter(t *testing.T) {
	src := "---\nid: welcome\ntitle: Welcome\nsidebar_label: Intro\ntags: [a, b]\ndate: 2024-05-01\n---\n\n# Hello\n"
	doc, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Front.ID != "welcome" || doc.Front.Title != "Welcome" || doc.Front.SidebarLabel != "Intro" {
		t.Errorf("front = %+v", doc.Front)
	}
	if len(doc.Front.Tags) != 2 {
		t.Errorf("tags = %v", doc.Front.Tags)
	}
	if d := doc.Front.ParsedDate(); d.Year() != 2024 || d.Month() != 5 {
		t.Errorf("date = %v", d)
	}
	if doc.Body != "# Hello\n" {
		t.Errorf("body = %q", doc.Body)
	}
}

func TestParseWithoutFrontMatter(t *testing.T) {
	doc, err := Parse("# Title\n\ntext")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Front.Title != "" || doc.Body != "# Title\n\ntext" {
		t.Errorf("doc = %+v", doc)
	}
	if Title(doc.Body) != "Title" {
		t.Errorf("Title = %q", Title(doc.Body))
	}
}

func TestParseBadFrontMatter(t *testing.T) {
	if _, err := Parse("---\ntitle: [unclosed\n---\nbody"); err == nil {
		t.Fatal("expected error")
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("Intro text.\n\n<!-- truncate -->\n\nMore."); got != "Intro text." {
		t.Errorf("Excerpt with marker = %q", got)
	}
	if got := Excerpt("# Title\n\nFirst para.\n\nSecond."); got != "First para." {
		t.Errorf("Excerpt without marker = %q", got)
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		body string
		want int
	}{
		{"", 1},
		{strings.Repeat("word ", 200), 1},
		{strings.Repeat("word ", 201), 2},
		{strings.Repeat("嵌", 450), 3},
	}
	for _, tt := range tests {
		if got := ReadingTime(tt.body); got != tt.want {
			t.Errorf("ReadingTime(%d chars) = %d, want %d", len(tt.body), got, tt.want)
		}
	}
}
