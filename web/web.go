// Package web holds the embedded static assets served by the HTTP layer.
package web

import "embed"

//go:embed templates/*.html
var TemplateFiles embed.FS
