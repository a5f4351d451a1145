package api_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/zhuxiaohai/philips-medical/config"
	"github.com/zhuxiaohai/philips-medical/pkg/auth"
	"github.com/zhuxiaohai/philips-medical/pkg/auth/static"
	"github.com/zhuxiaohai/philips-medical/pkg/document"
	"github.com/zhuxiaohai/philips-medical/server/api"
)

func testServer(t *testing.T) (*httptest.Server, *config.Config) {
	t.Helper()

	dir := t.TempDir()

	cfg := &config.Config{
		PublicURL: "http://localhost:4501",

		DataDir:  filepath.Join(dir, "data"),
		ImageDir: filepath.Join(dir, "images"),

		Resolver: document.NewResolver(filepath.Join(dir, "data")),
	}

	require.NoError(t, os.MkdirAll(cfg.DataDir, 0o755))
	require.NoError(t, os.MkdirAll(cfg.ImageDir, 0o755))

	h, err := api.New(cfg)
	require.NoError(t, err)

	r := chi.NewRouter()
	h.Attach(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return server, cfg
}

func uploadRequest(t *testing.T, url, filename string, content []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer

	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)

	_, err = part.Write(content)
	require.NoError(t, err)

	require.NoError(t, writer.Close())

	resp, err := http.Post(url+"/upload", writer.FormDataContentType(), &body)
	require.NoError(t, err)

	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func TestUpload(t *testing.T) {
	server, cfg := testServer(t)

	resp := uploadRequest(t, server.URL, "report.pdf", []byte("%PDF-1.4"))

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result api.UploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	require.Equal(t, "http://localhost:4501/data/report.pdf", result.URL)
	require.Equal(t, 1, result.Ranking)

	require.FileExists(t, filepath.Join(cfg.DataDir, "report.pdf"))
}

func TestUploadRejectsNonPDF(t *testing.T) {
	server, _ := testServer(t)

	resp := uploadRequest(t, server.URL, "report.docx", []byte("not a pdf"))

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadStripsPath(t *testing.T) {
	server, cfg := testServer(t)

	resp := uploadRequest(t, server.URL, "../escape.pdf", []byte("%PDF-1.4"))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.FileExists(t, filepath.Join(cfg.DataDir, "escape.pdf"))
}

func TestData(t *testing.T) {
	server, cfg := testServer(t)

	path := filepath.Join(cfg.DataDir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	resp, err := http.Get(server.URL + "/data/doc.pdf")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
}

func TestDataNotFound(t *testing.T) {
	server, _ := testServer(t)

	resp, err := http.Get(server.URL + "/data/missing.pdf")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestImage(t *testing.T) {
	server, cfg := testServer(t)

	dir := filepath.Join(cfg.ImageDir, "doc")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page1.png"), []byte("png"), 0o644))

	resp, err := http.Get(server.URL + "/img/doc/page1.png")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestAuthorizer(t *testing.T) {
	server, cfg := testServer(t)

	authorizer, err := static.New("secret")
	require.NoError(t, err)

	cfg.Authorizers = []auth.Provider{authorizer}

	resp, err := http.Get(server.URL + "/data/doc.pdf")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/data/doc.pdf", nil)
	require.NoError(t, err)

	req.Header.Set("Authorization", "Bearer secret")

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Authenticated, but the file does not exist.
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVerifyMissingFile(t *testing.T) {
	server, _ := testServer(t)

	resp, err := http.Post(server.URL+"/verify", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVerifyUnknownFile(t *testing.T) {
	server, _ := testServer(t)

	resp, err := http.Post(server.URL+"/verify", "application/json", strings.NewReader(`{"file": "missing.pdf"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	// Failures after the stream starts surface as a cancellation event.
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var event bytes.Buffer
	_, err = event.ReadFrom(resp.Body)
	require.NoError(t, err)

	require.Contains(t, event.String(), "task cancelled")
}
