// Package web holds the browser front-end served by diagram-d.
package web

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed dist/*
var content embed.FS

// Assets returns the embedded UI rooted at dist. It fails when the build
// shipped without an index page.
func Assets() (fs.FS, error) {
	sub, err := fs.Sub(content, "dist")
	if err != nil {
		return nil, err
	}
	if _, err := fs.Stat(sub, "index.html"); err != nil {
		return nil, fmt.Errorf("web assets missing index.html: %w", err)
	}
	return sub, nil
}
