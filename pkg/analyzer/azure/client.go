package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/zhuxiaohai/philips-medical/pkg/analyzer"
)

var _ analyzer.Provider = &Client{}

type Client struct {
	client *http.Client

	url   string
	token string
}

func New(url string, options ...Option) (*Client, error) {
	if url == "" {
		return nil, errors.New("invalid url")
	}

	c := &Client{
		client: http.DefaultClient,

		url: url,
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *Client) Analyze(ctx context.Context, input analyzer.Input, options *analyzer.AnalyzeOptions) (*analyzer.Result, error) {
	if options == nil {
		options = new(analyzer.AnalyzeOptions)
	}

	if !isSupported(input) {
		return nil, analyzer.ErrUnsupported
	}

	model := "prebuilt-layout"

	u, _ := url.Parse(strings.TrimRight(c.url, "/") + "/documentintelligence/documentModels/" + model + ":analyze")

	query := u.Query()
	query.Set("api-version", "2024-11-30")
	query.Set("features", "styleFont")

	if options.Pages != "" {
		query.Set("pages", options.Pages)
	}

	u.RawQuery = query.Encode()

	var req *http.Request

	if input.URL != "" {
		body, _ := json.Marshal(AnalyzeRequest{URLSource: input.URL})

		req, _ = http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(input.File.Content))
		req.Header.Set("Content-Type", "application/octet-stream")
	}

	req.Header.Set("Ocp-Apim-Subscription-Key", c.token)

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return nil, convertError(resp)
	}

	operationURL := resp.Header.Get("Operation-Location")

	if operationURL == "" {
		return nil, errors.New("missing operation location")
	}

	var operation AnalyzeOperation

	for {
		req, _ := http.NewRequestWithContext(ctx, "GET", operationURL, nil)
		req.Header.Set("Ocp-Apim-Subscription-Key", c.token)

		resp, err := c.client.Do(req)

		if err != nil {
			return nil, err
		}

		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, convertError(resp)
		}

		if err := json.NewDecoder(resp.Body).Decode(&operation); err != nil {
			return nil, err
		}

		if operation.Status == OperationStatusRunning || operation.Status == OperationStatusNotStarted {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()

			case <-time.After(2 * time.Second):
			}

			continue
		}

		if operation.Status != OperationStatusSucceeded {
			return nil, errors.New("operation " + string(operation.Status))
		}

		return convertResult(operation.Result), nil
	}
}

func convertResult(result AnalyzeResult) *analyzer.Result {
	converted := &analyzer.Result{
		Content: result.Content,
	}

	for _, page := range result.Pages {
		p := analyzer.Page{
			Number: page.PageNumber,

			Unit:   page.Unit,
			Width:  page.Width,
			Height: page.Height,
		}

		for _, line := range page.Lines {
			p.Lines = append(p.Lines, analyzer.Line{
				Content: line.Content,

				Spans:   convertSpans(line.Spans),
				Polygon: convertPolygon(line.Polygon),
			})
		}

		converted.Pages = append(converted.Pages, p)
	}

	for _, table := range result.Tables {
		t := analyzer.Table{
			RowCount:    table.RowCount,
			ColumnCount: table.ColumnCount,

			BoundingRegions: convertRegions(table.BoundingRegions),
		}

		for _, cell := range table.Cells {
			t.Cells = append(t.Cells, analyzer.Cell{
				RowIndex:    cell.RowIndex,
				ColumnIndex: cell.ColumnIndex,

				Content: cell.Content,

				Spans:           convertSpans(cell.Spans),
				BoundingRegions: convertRegions(cell.BoundingRegions),
			})
		}

		converted.Tables = append(converted.Tables, t)
	}

	for _, style := range result.Styles {
		converted.Styles = append(converted.Styles, analyzer.Style{
			IsHandwritten: style.IsHandwritten,
			Color:         style.Color,

			Spans: convertSpans(style.Spans),
		})
	}

	return converted
}

func isSupported(input analyzer.Input) bool {
	if input.URL != "" {
		return true
	}

	if input.File == nil {
		return false
	}

	if input.File.Name != "" {
		ext := strings.ToLower(path.Ext(input.File.Name))

		if slices.Contains(SupportedExtensions, ext) {
			return true
		}
	}

	if input.File.ContentType != "" {
		if slices.Contains(SupportedMimeTypes, input.File.ContentType) {
			return true
		}
	}

	return false
}

func convertSpans(spans []Span) []analyzer.Span {
	result := make([]analyzer.Span, 0, len(spans))

	for _, span := range spans {
		result = append(result, analyzer.Span{
			Offset: span.Offset,
			Length: span.Length,
		})
	}

	return result
}

func convertPolygon(polygon []float64) []analyzer.Point {
	if len(polygon)%2 != 0 {
		return nil
	}

	result := make([]analyzer.Point, 0, len(polygon)/2)

	for i := 0; i < len(polygon); i += 2 {
		result = append(result, analyzer.Point{
			X: polygon[i],
			Y: polygon[i+1],
		})
	}

	return result
}

func convertRegions(regions []BoundingRegion) []analyzer.BoundingRegion {
	result := make([]analyzer.BoundingRegion, 0, len(regions))

	for _, region := range regions {
		result = append(result, analyzer.BoundingRegion{
			PageNumber: region.PageNumber,
			Polygon:    convertPolygon(region.Polygon),
		})
	}

	return result
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	if len(data) == 0 {
		return errors.New(http.StatusText(resp.StatusCode))
	}

	return errors.New(string(data))
}
