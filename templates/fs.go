// Package templates embeds the HTML pages served by the dashboard.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
