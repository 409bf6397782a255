// Package dashboard holds the browser dashboard served when no html base dir is configured.
package dashboard

import (
	"embed"
	"io/fs"
)

//go:embed dist
var files embed.FS

// Dist returns the dashboard files, index.html at the root.
func Dist() fs.FS {
	sub, err := fs.Sub(files, "dist")
	if err != nil {
		panic(err)
	}
	return sub
}
