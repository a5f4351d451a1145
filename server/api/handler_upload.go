package api

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type UploadResponse struct {
	URL     string `json:"url"`
	Ranking int    `json:"ranking"`
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	defer file.Close()

	name := filepath.Base(header.Filename)

	if name == "" || name == "." {
		name = uuid.NewString() + ".pdf"
	}

	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		writeError(w, http.StatusBadRequest, errors.New("file is not a PDF"))
		return
	}

	ranking := 1

	if val := r.FormValue("ranking"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			ranking = parsed
		}
	}

	path := filepath.Join(h.DataDir, name)

	out, err := os.Create(path)

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJson(w, UploadResponse{
		URL:     h.PublicURL + "/data/" + name,
		Ranking: ranking,
	})
}
