package verifier

import (
	"github.com/zhuxiaohai/philips-medical/pkg/analyzer"
)

type ErrorType string

const (
	ErrorPageNumberInvalid       ErrorType = "page number is not valid"
	ErrorSignatureNotHandwritten ErrorType = "signature is not handwritten"
	ErrorDateNotHandwritten      ErrorType = "date is not handwritten"
	ErrorSignatureNotBlack       ErrorType = "signature is not black"
	ErrorDateNotBlack            ErrorType = "date is not black"
	ErrorPhilipsDateFormat       ErrorType = "philips date format is invalid"
	ErrorSignaturesMissing       ErrorType = "signatures and dates are missing"
	ErrorAuthorDateMissing       ErrorType = "author date is missing"
	ErrorPhilipsDateMissing      ErrorType = "philips date is missing"
	ErrorDateAheadOfAuthor       ErrorType = "date is ahead of author date"
	ErrorDateBehindPhilips       ErrorType = "date is behind philips date"
)

// FieldValue is a piece of recognized text together with its textual and
// geometric provenance.
type FieldValue struct {
	Content string `json:"content"`

	Spans           []analyzer.Span           `json:"spans"`
	BoundingRegions []analyzer.BoundingRegion `json:"boundingRegions"`
}

// Person is one data row of a signature table. Fields the table header did
// not name stay empty; an absent field is not an error by itself.
type Person struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`

	Signature FieldValue `json:"signature"`
	Date      FieldValue `json:"date"`
}

// SignatureTable is a detected table whose header row names both a
// "signature" and a "date" column.
type SignatureTable struct {
	RowCount    int `json:"rowCount"`
	ColumnCount int `json:"columnCount"`

	BoundingRegions []analyzer.BoundingRegion `json:"boundingRegions"`

	Persons []Person `json:"persons"`
}

// SignaturePair is a signature/date relationship inferred from free-running
// "completed by" / "completion date" markers rather than a table.
type SignaturePair struct {
	Signature FieldValue `json:"signature"`
	Date      FieldValue `json:"date"`
}

// DocumentError is one verification finding. Instances are immutable once
// created; they are the intended output of the engine, never faults.
type DocumentError struct {
	FileName   string    `json:"fileName"`
	ErrorType  ErrorType `json:"errorType"`
	PageNumber int       `json:"pageNumber"`
	Content    string    `json:"content"`

	BoundingRegions []analyzer.BoundingRegion `json:"boundingRegions"`
}

// AnchorState holds the authoritative author and Philips signer of a
// document, resolved once from the first signature table of page 1 and
// read-only afterwards. Dates are canonical YYYY-MM-DD strings, so the
// chronological comparisons in the rule evaluator are plain string
// comparisons.
type AnchorState struct {
	AuthorCell *Person `json:"authorCell"`
	AuthorDate string  `json:"authorDate"`

	PhilipsCell *Person `json:"philipsCell"`
	PhilipsDate string  `json:"philipsDate"`
}

// PageResult is the unit streamed to the caller, one per verified page, in
// ascending page order.
type PageResult struct {
	FileName   string `json:"fileName"`
	PageNumber int    `json:"pageNumber"`

	Results PageResults `json:"results"`
}

type PageResults struct {
	AuthorCell *Person `json:"authorCell"`
	AuthorDate string  `json:"authorDate"`

	PhilipsCell *Person `json:"philipsCell"`
	PhilipsDate string  `json:"philipsDate"`

	PageImage string `json:"pageImage"`

	Errors []DocumentError `json:"errors"`
}
