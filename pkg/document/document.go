package document

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

var (
	ErrNotFound = errors.New("document not found")
)

// Source is a resolved PDF: a readable local path plus the display name and
// page count the verifier schedules against.
type Source struct {
	Path string
	URL  string

	Name string

	Pages int
}

// Resolver turns a local path or URL into a Source. Fetched URLs are stored
// under the configured data directory so pages can be rasterized later.
type Resolver struct {
	client *http.Client

	dataDir string
}

func NewResolver(dataDir string, options ...ResolverOption) *Resolver {
	r := &Resolver{
		client: http.DefaultClient,

		dataDir: dataDir,
	}

	for _, option := range options {
		option(r)
	}

	return r
}

type ResolverOption func(*Resolver)

func WithClient(client *http.Client) ResolverOption {
	return func(r *Resolver) {
		r.client = client
	}
}

// Resolve locates the document and reads its page count. A path that neither
// exists locally nor is a fetchable URL is a not-found condition, fatal for
// the whole verification run.
func (r *Resolver) Resolve(ctx context.Context, pathOrURL string) (*Source, error) {
	source := &Source{
		Path: pathOrURL,
		Name: filepath.Base(pathOrURL),
	}

	if isURL(pathOrURL) {
		local, name, err := r.fetch(ctx, pathOrURL)

		if err != nil {
			return nil, err
		}

		source.Path = local
		source.URL = pathOrURL
		source.Name = name
	} else if _, err := os.Stat(pathOrURL); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, pathOrURL)
	}

	pages, err := pageCount(source.Path)

	if err != nil {
		return nil, err
	}

	source.Pages = pages

	return source, nil
}

func isURL(val string) bool {
	u, err := url.Parse(val)

	if err != nil {
		return false
	}

	return u.Scheme == "http" || u.Scheme == "https"
}

// cachePath derives the display name and the local cache path of a fetched
// URL. The path is keyed on the full URL, not just the basename, so distinct
// URLs never share a cache entry.
func (r *Resolver) cachePath(rawURL string) (string, string) {
	u, _ := url.Parse(rawURL)

	name := path.Base(u.Path)

	if name == "" || name == "/" || name == "." {
		name = "document.pdf"
	}

	sum := sha256.Sum256([]byte(rawURL))

	local := filepath.Join(r.dataDir, fmt.Sprintf("%x_%s", sum[:4], name))

	return local, name
}

func (r *Resolver) fetch(ctx context.Context, rawURL string) (string, string, error) {
	local, name := r.cachePath(rawURL)

	if _, err := os.Stat(local); err == nil {
		return local, name, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)

	if err != nil {
		return "", "", err
	}

	resp, err := r.client.Do(req)

	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	}

	if err := os.MkdirAll(r.dataDir, 0o755); err != nil {
		return "", "", err
	}

	file, err := os.Create(local)

	if err != nil {
		return "", "", err
	}

	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return "", "", err
	}

	return local, name, nil
}

func pageCount(path string) (int, error) {
	doc, err := fitz.New(path)

	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	defer doc.Close()

	return doc.NumPage(), nil
}

// BaseName strips the extension for use in image paths and URLs.
func BaseName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
