// Package i18n holds per-locale UI message catalogs and locale matching.
package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"

	"golang.org/x/text/language"
)

// Bundle maps locale -> message id -> message. The first locale is the
// fallback.
type Bundle struct {
	messages map[string]map[string]string
	locales  []string
	matcher  language.Matcher
}

// New creates an empty bundle for locales. fallback is moved to the front of
// the list and added when missing. Locale codes are canonicalised.
func New(fallback string, locales []string) (*Bundle, error) {
	fb, err := Canonical(fallback)
	if err != nil {
		return nil, err
	}
	ordered := []string{fb}
	for _, l := range locales {
		c, err := Canonical(l)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(ordered, c) {
			ordered = append(ordered, c)
		}
	}
	tags := make([]language.Tag, len(ordered))
	for i, l := range ordered {
		tags[i] = language.Make(l)
	}
	return &Bundle{
		messages: make(map[string]map[string]string, len(ordered)),
		locales:  ordered,
		matcher:  language.NewMatcher(tags),
	}, nil
}

// Canonical validates a locale code and returns its canonical BCP 47 form.
func Canonical(locale string) (string, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return "", fmt.Errorf("i18n: invalid locale %q: %w", locale, err)
	}
	return tag.String(), nil
}

// Fallback returns the default locale.
func (b *Bundle) Fallback() string { return b.locales[0] }

// Locales returns the supported locales, fallback first.
func (b *Bundle) Locales() []string { return slices.Clone(b.locales) }

// Supported reports whether locale is one of the bundle's locales.
func (b *Bundle) Supported(locale string) bool {
	return slices.Contains(b.locales, locale)
}

// Add parses a message catalog for locale. Values are either plain strings
// or objects with a "message" field:
//
//	{"homepage.hero.title": {"message": "DejaOS", "description": "..."}}
func (b *Bundle) Add(locale string, data []byte) error {
	if !b.Supported(locale) {
		return fmt.Errorf("i18n: locale %q is not configured", locale)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("i18n: parse %s: %w", locale, err)
	}
	m := b.messages[locale]
	if m == nil {
		m = make(map[string]string, len(raw))
		b.messages[locale] = m
	}
	for id, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			m[id] = s
			continue
		}
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(v, &obj); err != nil {
			return fmt.Errorf("i18n: %s: message %q: %w", locale, id, err)
		}
		m[id] = obj.Message
	}
	return nil
}

// LoadFS reads <dir>/<locale>/code.json for every locale. Missing files are
// skipped; the fallback strings live in code as default messages.
func (b *Bundle) LoadFS(fsys fs.FS, dir string) error {
	for _, l := range b.locales {
		name := path.Join(dir, l, "code.json")
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("i18n: read %s: %w", name, err)
		}
		if err := b.Add(l, raw); err != nil {
			return err
		}
	}
	return nil
}

// T returns the message id in locale, then in the fallback locale, then def.
func (b *Bundle) T(locale, id, def string) string {
	if b == nil {
		return def
	}
	if v, ok := b.messages[locale][id]; ok && v != "" {
		return v
	}
	if v, ok := b.messages[b.Fallback()][id]; ok && v != "" {
		return v
	}
	return def
}

// Match picks the best supported locale for an Accept-Language header.
func (b *Bundle) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return b.Fallback()
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return b.Fallback()
	}
	return b.locales[idx]
}

// For binds the bundle to one locale.
func (b *Bundle) For(locale string) Localizer {
	return Localizer{bundle: b, locale: locale}
}

// Localizer translates message ids for a single locale.
type Localizer struct {
	bundle *Bundle
	locale string
}

// Locale returns the bound locale.
func (l Localizer) Locale() string { return l.locale }

// T translates id, returning def when no catalog has it.
func (l Localizer) T(id, def string) string {
	return l.bundle.T(l.locale, id, def)
}
