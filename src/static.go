package game

import (
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var mimeTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
}

func mimeType(name string) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return "application/octet-stream"
}

// StaticFileServer serves files from dir, with "/" mapped to index.html.
// Anything that is not a regular file under dir is a 404.
func StaticFileServer(dir string) http.Handler {
	if _, err := os.Stat(dir); err != nil {
		log.Printf("Static directory %s unavailable: %v", dir, err)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, seg := range strings.Split(r.URL.Path, "/") {
			if seg == ".." {
				http.Error(w, "invalid path", http.StatusBadRequest)
				return
			}
		}

		name := path.Clean("/" + r.URL.Path)
		if name == "/" {
			name = "/index.html"
		}
		full := filepath.Join(dir, filepath.FromSlash(name))

		f, err := os.Open(full)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil || !info.Mode().IsRegular() {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", mimeType(full))
		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	})
}
