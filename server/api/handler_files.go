package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleData(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(chi.URLParam(r, "name"))

	path := filepath.Join(h.DataDir, name)

	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, errors.New("file not found"))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")

	http.ServeFile(w, r, path)
}

func (h *Handler) handleImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")

	path := filepath.Join(h.ImageDir, filepath.Clean("/"+name))

	if !strings.HasPrefix(path, filepath.Clean(h.ImageDir)+string(os.PathSeparator)) {
		writeError(w, http.StatusNotFound, errors.New("image not found"))
		return
	}

	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, errors.New("image not found"))
		return
	}

	w.Header().Set("Content-Type", "image/png")

	http.ServeFile(w, r, path)
}
