// Package web embeds the static analysis page for serving from the Go
// binary.
//
// The page is a single hand-written HTML/JS file under static/ that
// talks to the REST API; there is no build step.
//
// Usage in the API server:
//
//	import "github.com/Rejipmathew/OptiontradingQuandl/web"
//	fs := web.StaticFS()  // returns io/fs.FS rooted at static/
package web

import (
	"embed"
	"io/fs"
	"log"
)

//go:embed all:static
var static embed.FS

// StaticFS returns a filesystem rooted at the embedded static/
// directory, ready to use with http.FileServerFS or http.FS.
func StaticFS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		log.Fatalf("web.StaticFS: %v", err)
	}
	return sub
}
