package endpoints

import (
	"io/fs"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/labrelay/internal/api"
	"github.com/jackzampolin/labrelay/web"
)

// UIPrefix is where the embedded upload page is mounted.
const UIPrefix = "/ui/"

// StaticEndpoint serves the embedded upload page.
// Unknown paths under the prefix fall back to index.html.
type StaticEndpoint struct{}

var _ api.Endpoint = (*StaticEndpoint)(nil)

func (e *StaticEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", UIPrefix + "{path...}", e.handler
}

func (e *StaticEndpoint) RequiresInit() bool {
	return false
}

func (e *StaticEndpoint) Command(_ func() string) *cobra.Command {
	return nil // No CLI command for static files
}

func (e *StaticEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	distFS, err := web.DistFS()
	if err != nil {
		http.Error(w, "Frontend not available", http.StatusInternalServerError)
		return
	}

	filePath := r.PathValue("path")
	if filePath != "" {
		if file, err := distFS.Open(filePath); err == nil {
			file.Close()
			http.StripPrefix(UIPrefix[:len(UIPrefix)-1], http.FileServer(http.FS(distFS))).ServeHTTP(w, r)
			return
		}
	}

	indexFile, err := fs.ReadFile(distFS, "index.html")
	if err != nil {
		http.Error(w, "Frontend not available", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexFile)
}
