package analyzer

import (
	"context"
	"errors"
)

// Provider analyzes a single page of a document and returns its layout:
// text lines, tables and styled text runs.
type Provider interface {
	Analyze(ctx context.Context, input Input, options *AnalyzeOptions) (*Result, error)
}

var (
	ErrUnsupported = errors.New("unsupported type")
)

type Input struct {
	URL string

	File *File
}

type File struct {
	Name string

	Content     []byte
	ContentType string
}

type AnalyzeOptions struct {
	// Pages selects the page(s) to analyze, e.g. "1" or "2-5".
	// Empty analyzes the whole document.
	Pages string
}

type Result struct {
	Content string

	Pages  []Page
	Tables []Table
	Styles []Style
}

type Page struct {
	Number int

	Unit   string
	Width  float64
	Height float64

	Lines []Line
}

type Line struct {
	Content string

	Spans   []Span
	Polygon []Point
}

type Table struct {
	RowCount    int
	ColumnCount int

	Cells []Cell

	BoundingRegions []BoundingRegion
}

type Cell struct {
	RowIndex    int
	ColumnIndex int

	Content string

	Spans           []Span
	BoundingRegions []BoundingRegion
}

// Style is one contiguous styling classification over the page text.
type Style struct {
	IsHandwritten bool
	Color         string

	Spans []Span
}

// Span is a half-open offset interval into the recognized text stream.
type Span struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type BoundingRegion struct {
	PageNumber int     `json:"pageNumber"`
	Polygon    []Point `json:"polygon"`
}
