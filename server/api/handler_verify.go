package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zhuxiaohai/philips-medical/pkg/verifier"
)

type VerifyRequest struct {
	File string `json:"file"`

	StartPage int `json:"startPage,omitempty"`

	MinPages int `json:"minPages,omitempty"`
	MaxPages int `json:"maxPages,omitempty"`
}

// handleVerify streams one event per verified page in ascending page order.
// The stream terminates either after the last in-range page or with exactly
// one cancellation event on the first failure.
func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if req.File == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing file"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	source, err := h.Resolver.Resolve(r.Context(), req.File)

	if err != nil {
		writeCancelEvent(w, err)
		return
	}

	options := &verifier.RunOptions{
		StartPage: req.StartPage,

		MinPages: req.MinPages,
		MaxPages: req.MaxPages,
	}

	for result, err := range h.Verifier.Run(r.Context(), source, options) {
		if err != nil {
			writeCancelEvent(w, err)
			return
		}

		writeEvent(w, result)
	}
}

func writeEvent(w http.ResponseWriter, result *verifier.PageResult) {
	data, err := json.Marshal(result)

	if err != nil {
		return
	}

	w.Write([]byte("data: "))
	w.Write(data)
	w.Write([]byte("\n\n"))

	http.NewResponseController(w).Flush()
}

func writeCancelEvent(w http.ResponseWriter, err error) {
	data, _ := json.Marshal(map[string]string{"task cancelled": err.Error()})

	w.Write([]byte("data: "))
	w.Write(data)
	w.Write([]byte("\n\n"))

	http.NewResponseController(w).Flush()
}
