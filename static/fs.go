// Package static embeds the stylesheet and scripts shared by all pages.
package static

import "embed"

//go:embed css js
var FS embed.FS
