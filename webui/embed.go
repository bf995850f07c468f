// Package webui exposes the embedded sketch UI.
// It lives at the module root to embed the sibling "web/" directory;
// internal/server/embed.go imports it to serve index.html.
package webui

import "embed"

// FS is the embedded web directory tree.
//
//go:embed web
var FS embed.FS
