package dejasite

import "embed"

// EmbeddedAssets contains the stylesheet shipped with the engine, served
// under /assets/.
//
//go:embed assets
var EmbeddedAssets embed.FS
