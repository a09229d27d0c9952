// Package templates holds the embedded HTML pages.
package templates

import "embed"

// FS contains layout.html and one file per page
//
//go:embed *.html
var FS embed.FS
