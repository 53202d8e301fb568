// Package scaffold embeds the default DejaOS site content and the files
// `dejasite init` writes into a new site directory.
package scaffold

import (
	"embed"
	"io/fs"
)

// Templates contains the site tree under templates/site plus the project
// files beside it. Files with a .tmpl suffix use text/template syntax.
//
//go:embed all:templates
var Templates embed.FS

// Site returns the embedded site content rooted at site.yaml.
func Site() (fs.FS, error) {
	return fs.Sub(Templates, "templates/site")
}
