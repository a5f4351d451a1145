package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhuxiaohai/philips-medical/config"
)

type Handler struct {
	*config.Config
}

func New(cfg *config.Config) (*Handler, error) {
	h := &Handler{
		Config: cfg,
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Use(h.authenticate)

	r.Post("/upload", h.handleUpload)
	r.Post("/verify", h.handleVerify)

	r.Get("/data/{name}", h.handleData)
	r.Get("/img/*", h.handleImage)
}

// authenticate accepts the request when any configured authorizer does. With
// no authorizers the API is open.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(h.Authorizers) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		for _, authorizer := range h.Authorizers {
			ctx, err := authorizer.Authenticate(r.Context(), r)

			if err != nil {
				continue
			}

			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		writeError(w, http.StatusUnauthorized, nil)
	})
}

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.WriteHeader(code)

	text := http.StatusText(code)

	if err != nil {
		text = err.Error()
	}

	w.Write([]byte(text))
}
