// Package catalog joins locale-independent catalog tables (devices, showcase
// projects) with per-locale content and lays the result out as display cards.
package catalog

import (
	"fmt"
	"slices"
)

// Item is one row of a static identity table. Its position in the table is
// its default display order.
type Item struct {
	ID        string `yaml:"id"`
	ImageRef  string `yaml:"image"`
	ActionURL string `yaml:"action_url"`
}

// Table is the ordered, locale-independent list of catalog items.
type Table []Item

// Validate reports empty or duplicate ids.
func (t Table) Validate() error {
	seen := make(map[string]int, len(t))
	for i, it := range t {
		if it.ID == "" {
			return fmt.Errorf("catalog: item %d has no id", i)
		}
		if j, ok := seen[it.ID]; ok {
			return fmt.Errorf("catalog: duplicate id %q at positions %d and %d", it.ID, j, i)
		}
		seen[it.ID] = i
	}
	return nil
}

// IDs returns the item ids in table order.
func (t Table) IDs() []string {
	ids := make([]string, len(t))
	for i, it := range t {
		ids[i] = it.ID
	}
	return ids
}

// Entry holds the translatable fields of one item in one locale.
type Entry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Specs       Specs  `json:"specs"`
}

// PageText holds the per-locale strings of a catalog page.
type PageText struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Heading      string `json:"heading"`
	Subtitle     string `json:"subtitle"`
	ActionLabel  string `json:"action_label"`
	SpecsHeading string `json:"specs_heading"`
	ImageLabel   string `json:"image_label"`
	CTATitle     string `json:"cta_title"`
	CTAButton    string `json:"cta_button"`
}

// LocaleTable is the content of one locale: page strings plus entries keyed
// by item id.
type LocaleTable struct {
	Page  PageText         `json:"page"`
	Items map[string]Entry `json:"items"`
}

// Content maps a locale code to its LocaleTable.
type Content map[string]LocaleTable

// Locales returns the locale codes present in c, sorted.
func (c Content) Locales() []string {
	out := make([]string, 0, len(c))
	for l := range c {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// ResolvedItem is an Item joined with its Entry for one locale.
// Translated is false when no entry matched and the text fields are empty.
type ResolvedItem struct {
	Item
	Entry
	Translated bool
}

// Resolution is the output of Resolve.
type Resolution struct {
	RequestedLocale string
	ResolvedLocale  string
	FallbackUsed    bool
	Page            PageText
	Items           []ResolvedItem
}

// Resolve joins table with the content of locale. When content has no table
// for locale at all, the fallback locale's table is used in its entirety;
// there is no per-field borrowing. Items without a matching entry resolve
// with empty text. The result has exactly len(table) items in table order,
// and neither input is modified.
func Resolve(locale, fallback string, table Table, content Content) Resolution {
	res := Resolution{
		RequestedLocale: locale,
		ResolvedLocale:  locale,
	}
	lt, ok := content[locale]
	if !ok {
		res.ResolvedLocale = fallback
		res.FallbackUsed = locale != fallback
		lt = content[fallback]
	}
	res.Page = lt.Page
	res.Items = make([]ResolvedItem, len(table))
	for i, it := range table {
		ri := ResolvedItem{Item: it}
		if e, ok := lt.Items[it.ID]; ok {
			ri.Entry = Entry{
				Title:       e.Title,
				Description: e.Description,
				Specs:       slices.Clone(e.Specs),
			}
			ri.Translated = true
		}
		res.Items[i] = ri
	}
	return res
}

// Catalog bundles a table with its content.
type Catalog struct {
	Name    string
	Table   Table
	Content Content
}

// Resolve resolves the catalog for locale with the given fallback.
func (c *Catalog) Resolve(locale, fallback string) Resolution {
	if c == nil {
		return Resolution{RequestedLocale: locale, ResolvedLocale: fallback, FallbackUsed: locale != fallback}
	}
	return Resolve(locale, fallback, c.Table, c.Content)
}

// Missing returns, per locale, the ids of table items that have no entry.
func (c *Catalog) Missing() map[string][]string {
	out := map[string][]string{}
	for locale, lt := range c.Content {
		for _, it := range c.Table {
			if _, ok := lt.Items[it.ID]; !ok {
				out[locale] = append(out[locale], it.ID)
			}
		}
	}
	return out
}
