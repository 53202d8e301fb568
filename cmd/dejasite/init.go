package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/dejaos/dejasite"
	"github.com/dejaos/dejasite/scaffold"
)

// initData holds the variables passed to every .tmpl file.
type initData struct {
	SiteURL string
}

// runInit writes the embedded site tree into dir. templates/site/* lands at
// the top of dir; other templates land beside it with .tmpl stripped, and
// dotenv becomes .env.example.
func runInit(dir string) error {
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return fmt.Errorf("directory %q is not empty", dir)
	}
	data := initData{SiteURL: dejasite.EnvOr("SITE_URL", "http://localhost:3000")}

	fmt.Printf("Creating DejaOS site in %s\n\n", dir)

	const root = "templates"
	err := fs.WalkDir(scaffold.Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, root), "/")
		if rel == "site" || strings.HasPrefix(rel, "site/") {
			rel = strings.TrimPrefix(strings.TrimPrefix(rel, "site"), "/")
		}
		outPath := filepath.Join(dir, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		content, err := scaffold.Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if strings.HasSuffix(outPath, ".tmpl") {
			outPath = strings.TrimSuffix(outPath, ".tmpl")
			if filepath.Base(outPath) == "dotenv" {
				outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
			}
			if content, err = render(path, content, data); err != nil {
				return err
			}
		}

		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(outPath, content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		fmt.Printf("  created %s\n", outPath)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Done! Next steps:")
	fmt.Println()
	fmt.Printf("  cp %s .env\n", filepath.Join(dir, ".env.example"))
	fmt.Printf("  SITE_DIR=%s dejasite serve\n", dir)
	return nil
}

func render(name string, content []byte, data initData) ([]byte, error) {
	tmpl, err := template.New(filepath.Base(name)).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return []byte(b.String()), nil
}
