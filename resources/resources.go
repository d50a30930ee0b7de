// Package resources embeds the page templates, language catalogs and the
// static assets the pages load.
package resources

import (
	"embed"
	"io/fs"
)

//go:embed views lang static
var files embed.FS

// Views returns the template tree rooted at views/.
func Views() fs.FS { return sub("views") }

// Lang returns the language catalogs rooted at lang/.
func Lang() fs.FS { return sub("lang") }

// Static returns the browser assets rooted at static/.
func Static() fs.FS { return sub("static") }

func sub(dir string) fs.FS {
	f, err := fs.Sub(files, dir)
	if err != nil {
		// dir is a compile-time constant embedded above
		panic(err)
	}
	return f
}
