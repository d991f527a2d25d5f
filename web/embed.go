// Package web provides the embedded frontend files.
package web

import "embed"

// FS contains the embedded frontend files (index.html, static/css, static/js).
//
//go:embed index.html static
var FS embed.FS
