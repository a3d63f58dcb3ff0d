package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// DocHandler serves the static API documentation under prefix.
// Directory listings are disabled; a missing file is a 404.
func DocHandler(prefix, dir string) http.Handler {
	fs := http.StripPrefix(prefix, http.FileServer(noListingFS{http.Dir(dir)}))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// chi mounts "/doc/*"; send "/doc" to the index like a directory
		if r.URL.Path == prefix {
			http.Redirect(w, r, prefix+"/", http.StatusMovedPermanently)
			return
		}
		fs.ServeHTTP(w, r)
	})
}

// MountDocs registers the documentation routes on r
func MountDocs(r chi.Router, prefix, dir string) {
	h := DocHandler(prefix, dir)
	r.Get(prefix, h.ServeHTTP)
	r.Get(prefix+"/*", h.ServeHTTP)
	r.Head(prefix+"/*", h.ServeHTTP)
}

// noListingFS hides directories that have no index.html
type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if stat.IsDir() {
		index := strings.TrimSuffix(name, "/") + "/index.html"
		idx, err := n.fs.Open(index)
		if err != nil {
			f.Close()
			return nil, err
		}
		idx.Close()
	}
	return f, nil
}
