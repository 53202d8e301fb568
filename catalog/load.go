package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// LoadTable reads a YAML list of items from fsys.
func LoadTable(fsys fs.FS, name string) (Table, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", name, err)
	}
	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", name, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", name, err)
	}
	return t, nil
}

// LoadContent reads a JSON document keyed by locale, then by item id.
func LoadContent(fsys fs.FS, name string) (Content, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", name, err)
	}
	var c Content
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", name, err)
	}
	return c, nil
}

// Load reads <dir>/<name>.yaml and <dir>/<name>.i18n.json.
func Load(fsys fs.FS, dir, name string) (*Catalog, error) {
	table, err := LoadTable(fsys, dir+"/"+name+".yaml")
	if err != nil {
		return nil, err
	}
	content, err := LoadContent(fsys, dir+"/"+name+".i18n.json")
	if err != nil {
		return nil, err
	}
	return &Catalog{Name: name, Table: table, Content: content}, nil
}
