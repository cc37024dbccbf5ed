package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// SiteHandler serves the files of a generated site directory.
type SiteHandler struct {
	dir   string
	files http.Handler
}

var _ Handler = (*SiteHandler)(nil)

// NewSiteHandler creates a SiteHandler rooted at dir.
func NewSiteHandler(dir string) *SiteHandler {
	return &SiteHandler{dir: dir, files: http.FileServer(http.Dir(dir))}
}

// Routes returns the HTTP routes this handler serves.
func (h *SiteHandler) Routes() []string {
	return []string{"/"}
}

// ServeHTTP serves the requested file. Directory requests without an index.html answer 404 instead of a listing.
func (h *SiteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	if strings.HasSuffix(r.URL.Path, "/") || name == "/" {
		index := filepath.Join(h.dir, filepath.FromSlash(name), "index.html")
		if _, err := os.Stat(index); err != nil {
			http.Error(w, "No site found here. Run `moviedb generate-site` first.", http.StatusNotFound)
			return
		}
	}

	w.Header().Set("Cache-Control", "no-store")
	h.files.ServeHTTP(w, r)
}
