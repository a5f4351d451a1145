package verifier

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"os"
	"strconv"

	"golang.org/x/sync/semaphore"

	"github.com/zhuxiaohai/philips-medical/pkg/analyzer"
	"github.com/zhuxiaohai/philips-medical/pkg/document"
)

// Renderer produces an annotated image of a page carrying errors and returns
// a URL for it. Rendering is best-effort side work; failures degrade to an
// absent image, never to a failed page.
type Renderer interface {
	Render(ctx context.Context, source *document.Source, pageNumber int, errors []DocumentError) (string, error)
}

// Verifier drives the per-page verification pipeline: page 1 first to freeze
// the anchor state, then a bounded fan-out over the remaining pages, with
// results re-ordered into ascending page order before they reach the caller.
type Verifier struct {
	analyzer analyzer.Provider
	renderer Renderer

	concurrency int64

	minPages int
	maxPages int
}

type Option func(*Verifier)

func WithRenderer(r Renderer) Option {
	return func(v *Verifier) {
		v.renderer = r
	}
}

// WithConcurrency bounds how many pages are analyzed at once.
func WithConcurrency(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.concurrency = int64(n)
		}
	}
}

// WithPageRange clamps verification to [min, max]. A max of 0 means no cap.
func WithPageRange(min, max int) Option {
	return func(v *Verifier) {
		v.minPages = min
		v.maxPages = max
	}
}

func New(provider analyzer.Provider, options ...Option) (*Verifier, error) {
	if provider == nil {
		return nil, errors.New("missing analyzer provider")
	}

	v := &Verifier{
		analyzer: provider,

		concurrency: 4,

		minPages: 1,
	}

	for _, option := range options {
		option(v)
	}

	return v, nil
}

type pageMessage struct {
	result *PageResult
	err    error
}

// RunOptions narrows a single run. The configured page range always bounds
// the request: a request can raise the first page or lower the last one, but
// never widen past the configuration.
type RunOptions struct {
	StartPage int

	MinPages int
	MaxPages int
}

// Run verifies the document and streams one PageResult per in-range page, in
// strictly ascending page order regardless of completion order. On the first
// failure the stream yields exactly one error and stops; outstanding page
// work is abandoned, never awaited by the caller.
func (v *Verifier) Run(ctx context.Context, source *document.Source, options *RunOptions) iter.Seq2[*PageResult, error] {
	if options == nil {
		options = new(RunOptions)
	}

	return func(yield func(*PageResult, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		first := max(v.minPages, options.MinPages, options.StartPage, 1)
		last := source.Pages

		if v.maxPages > 0 && last > v.maxPages {
			last = v.maxPages
		}

		if options.MaxPages > 0 && last > options.MaxPages {
			last = options.MaxPages
		}

		if first > last {
			return
		}

		input, err := v.input(source)

		if err != nil {
			yield(nil, err)
			return
		}

		slog.InfoContext(ctx, "begin to analyze document", "file", source.Name, "pages", source.Pages)

		var anchors AnchorState

		// The anchor page runs before any fan-out so every worker sees a
		// frozen AnchorState. Anchors only exist when the run starts at the
		// first page of the document.
		next := first

		if first == 1 {
			result, err := v.processPage(ctx, source, input, 1, AnchorState{})

			if err != nil {
				yield(nil, err)
				return
			}

			anchors = AnchorState{
				AuthorCell:  result.Results.AuthorCell,
				AuthorDate:  result.Results.AuthorDate,
				PhilipsCell: result.Results.PhilipsCell,
				PhilipsDate: result.Results.PhilipsDate,
			}

			if !yield(result, nil) {
				return
			}

			next = 2
		}

		if next > last {
			slog.InfoContext(ctx, "complete analyzing document", "file", source.Name)
			return
		}

		// One slot per remaining page keeps channel sends from ever blocking
		// a worker, so abandoned work cannot wedge the producer side.
		results := make(chan pageMessage, last-next+1)
		gate := semaphore.NewWeighted(v.concurrency)

		for page := next; page <= last; page++ {
			go func(page int) {
				if err := gate.Acquire(ctx, 1); err != nil {
					results <- pageMessage{err: err}
					return
				}

				defer gate.Release(1)

				result, err := v.processPage(ctx, source, input, page, anchors)

				results <- pageMessage{result: result, err: err}
			}(page)
		}

		buffer := map[int]*PageResult{}

		for pending := last - next + 1; pending > 0; pending-- {
			msg := <-results

			if msg.err != nil {
				slog.ErrorContext(ctx, "page analysis failed", "file", source.Name, "error", msg.err)

				yield(nil, msg.err)
				return
			}

			buffer[msg.result.PageNumber] = msg.result

			for buffer[next] != nil {
				result := buffer[next]
				delete(buffer, next)

				slog.DebugContext(ctx, "page result sent", "file", source.Name, "page", next)

				if !yield(result, nil) {
					return
				}

				next++
			}
		}

		slog.InfoContext(ctx, "complete analyzing document", "file", source.Name)
	}
}

func (v *Verifier) input(source *document.Source) (analyzer.Input, error) {
	if source.URL != "" {
		return analyzer.Input{URL: source.URL}, nil
	}

	data, err := os.ReadFile(source.Path)

	if err != nil {
		return analyzer.Input{}, err
	}

	return analyzer.Input{
		File: &analyzer.File{
			Name: source.Name,

			Content:     data,
			ContentType: "application/pdf",
		},
	}, nil
}

func (v *Verifier) processPage(ctx context.Context, source *document.Source, input analyzer.Input, pageNumber int, anchors AnchorState) (*PageResult, error) {
	slog.DebugContext(ctx, "begin to process page", "file", source.Name, "page", pageNumber)

	result := &PageResult{
		FileName:   source.Name,
		PageNumber: pageNumber,

		Results: PageResults{
			AuthorCell:  anchors.AuthorCell,
			AuthorDate:  anchors.AuthorDate,
			PhilipsCell: anchors.PhilipsCell,
			PhilipsDate: anchors.PhilipsDate,

			Errors: []DocumentError{},
		},
	}

	layout, err := v.analyzer.Analyze(ctx, input, &analyzer.AnalyzeOptions{
		Pages: strconv.Itoa(pageNumber),
	})

	if err != nil {
		// An unsupported source yields no findings for the page rather than
		// failing the document.
		if errors.Is(err, analyzer.ErrUnsupported) {
			return result, nil
		}

		return nil, err
	}

	slog.DebugContext(ctx, "page parsed", "file", source.Name, "page", pageNumber)

	pageErrors, anchors := Evaluate(source.Name, pageNumber, layout, anchors)

	for _, e := range pageErrors {
		slog.InfoContext(ctx, "document error",
			"file", e.FileName,
			"errorType", string(e.ErrorType),
			"page", e.PageNumber,
			"content", e.Content,
		)
	}

	result.Results.AuthorCell = anchors.AuthorCell
	result.Results.AuthorDate = anchors.AuthorDate
	result.Results.PhilipsCell = anchors.PhilipsCell
	result.Results.PhilipsDate = anchors.PhilipsDate
	result.Results.Errors = pageErrors

	if len(pageErrors) > 0 && v.renderer != nil {
		image, err := v.renderer.Render(ctx, source, pageNumber, pageErrors)

		if err != nil {
			slog.ErrorContext(ctx, "failed to render page image", "file", source.Name, "page", pageNumber, "error", err)
		} else {
			result.Results.PageImage = image
		}
	}

	return result, nil
}
