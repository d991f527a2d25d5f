package handler

import (
	"net/http"

	"github.com/adimehta/aiportal/web"
)

// Index serves the embedded frontend page.
func (h *Repo) Index(w http.ResponseWriter, r *http.Request) {
	page, err := web.FS.ReadFile("index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// StaticFiles serves the embedded static assets under /static/.
func (h *Repo) StaticFiles() http.Handler {
	return http.FileServer(http.FS(web.FS))
}
