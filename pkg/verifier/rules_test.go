package verifier_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zhuxiaohai/philips-medical/pkg/analyzer"
	"github.com/zhuxiaohai/philips-medical/pkg/verifier"
)

// styledTable builds a signature table on the given page and returns the span
// of every data cell keyed by its content, so tests can target style runs at
// individual fields.
func styledTable(pageNumber int, rows [][]string) (analyzer.Table, map[string]analyzer.Span) {
	headers := []string{"Name", "Role", "Signature", "Date"}

	table := analyzer.Table{
		RowCount:    len(rows) + 1,
		ColumnCount: len(headers),

		BoundingRegions: []analyzer.BoundingRegion{
			{PageNumber: pageNumber, Polygon: []analyzer.Point{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 4}, {X: 0, Y: 4}}},
		},
	}

	spans := map[string]analyzer.Span{}
	offset := 0

	cell := func(row, col int, content string) analyzer.Cell {
		span := analyzer.Span{Offset: offset, Length: len(content)}
		spans[content] = span

		offset += len(content) + 1

		return analyzer.Cell{
			RowIndex:    row,
			ColumnIndex: col,

			Content: content,

			Spans: []analyzer.Span{span},
			BoundingRegions: []analyzer.BoundingRegion{
				{PageNumber: pageNumber, Polygon: []analyzer.Point{{X: float64(col), Y: float64(row)}, {X: float64(col + 1), Y: float64(row)}, {X: float64(col + 1), Y: float64(row + 1)}, {X: float64(col), Y: float64(row + 1)}}},
			},
		}
	}

	for col, header := range headers {
		table.Cells = append(table.Cells, cell(0, col, header))
	}

	for row, values := range rows {
		for col, value := range values {
			table.Cells = append(table.Cells, cell(row+1, col, value))
		}
	}

	return table, spans
}

func handwrittenStyle(spans ...analyzer.Span) analyzer.Style {
	return analyzer.Style{IsHandwritten: true, Spans: spans}
}

func colorStyle(color string, spans ...analyzer.Span) analyzer.Style {
	return analyzer.Style{Color: color, Spans: spans}
}

func errorTypes(errors []verifier.DocumentError) []verifier.ErrorType {
	var types []verifier.ErrorType

	for _, e := range errors {
		types = append(types, e.ErrorType)
	}

	return types
}

func TestEvaluateSignatureNotHandwritten(t *testing.T) {
	table, spans := styledTable(1, [][]string{
		{"John Smith", "Author", "J. Smith", "01-Jan-2024"},
	})

	result := &analyzer.Result{
		Tables: []analyzer.Table{table},
		Styles: []analyzer.Style{
			// Only the date is handwritten.
			handwrittenStyle(spans["01-Jan-2024"]),
		},
	}

	errors, anchors := verifier.Evaluate("doc.pdf", 1, result, verifier.AnchorState{})

	require.Len(t, errors, 1)
	require.Equal(t, verifier.ErrorSignatureNotHandwritten, errors[0].ErrorType)
	require.Equal(t, "j. smith", errors[0].Content)
	require.Equal(t, "doc.pdf", errors[0].FileName)
	require.Equal(t, 1, errors[0].PageNumber)
	require.NotEmpty(t, errors[0].BoundingRegions)

	require.Equal(t, "2024-01-01", anchors.AuthorDate)
}

func TestEvaluateSignatureNotBlack(t *testing.T) {
	table, spans := styledTable(1, [][]string{
		{"John Smith", "Author", "J. Smith", "01-Jan-2024"},
	})

	result := &analyzer.Result{
		Tables: []analyzer.Table{table},
		Styles: []analyzer.Style{
			handwrittenStyle(spans["J. Smith"], spans["01-Jan-2024"]),
			colorStyle("#2040FF", spans["J. Smith"]),
		},
	}

	errors, _ := verifier.Evaluate("doc.pdf", 1, result, verifier.AnchorState{})

	require.Equal(t, []verifier.ErrorType{verifier.ErrorSignatureNotBlack}, errorTypes(errors))
	require.Equal(t, "j. smith", errors[0].Content)
}

func TestEvaluateDateAheadOfAuthor(t *testing.T) {
	table, spans := styledTable(2, [][]string{
		{"Jane Doe", "Reviewer", "J. Doe", "15-Dec-2023"},
	})

	result := &analyzer.Result{
		Tables: []analyzer.Table{table},
		Styles: []analyzer.Style{
			handwrittenStyle(spans["J. Doe"], spans["15-Dec-2023"]),
		},
	}

	anchors := verifier.AnchorState{AuthorDate: "2024-01-01", PhilipsDate: "2024-03-15"}

	errors, _ := verifier.Evaluate("doc.pdf", 2, result, anchors)

	require.Equal(t, []verifier.ErrorType{verifier.ErrorDateAheadOfAuthor}, errorTypes(errors))
	require.Equal(t, "15-dec-2023", errors[0].Content)
	require.Equal(t, 2, errors[0].PageNumber)
}

func TestEvaluateDateBehindPhilips(t *testing.T) {
	table, spans := styledTable(2, [][]string{
		{"Jane Doe", "Reviewer", "J. Doe", "20-Mar-2024"},
	})

	result := &analyzer.Result{
		Tables: []analyzer.Table{table},
		Styles: []analyzer.Style{
			handwrittenStyle(spans["J. Doe"], spans["20-Mar-2024"]),
		},
	}

	anchors := verifier.AnchorState{AuthorDate: "2024-01-01", PhilipsDate: "2024-03-15"}

	errors, _ := verifier.Evaluate("doc.pdf", 2, result, anchors)

	require.Equal(t, []verifier.ErrorType{verifier.ErrorDateBehindPhilips}, errorTypes(errors))
}

func TestEvaluatePageNumberInvalid(t *testing.T) {
	result := &analyzer.Result{
		Pages: []analyzer.Page{lines(4, "Page 3 of 10")},
	}

	errors, _ := verifier.Evaluate("doc.pdf", 4, result, verifier.AnchorState{})

	require.Len(t, errors, 1)
	require.Equal(t, verifier.ErrorPageNumberInvalid, errors[0].ErrorType)
	require.Equal(t, "Page 3 of 10", errors[0].Content)
}

func TestEvaluatePageNumberMatching(t *testing.T) {
	result := &analyzer.Result{
		Pages: []analyzer.Page{lines(3, "Page 3 of 10")},
	}

	errors, _ := verifier.Evaluate("doc.pdf", 3, result, verifier.AnchorState{})

	require.Empty(t, errors)
}

func TestEvaluateEmptySignatureTable(t *testing.T) {
	table, _ := styledTable(1, [][]string{
		{"", "", "", ""},
	})

	result := &analyzer.Result{
		Tables: []analyzer.Table{table},
	}

	errors, anchors := verifier.Evaluate("doc.pdf", 1, result, verifier.AnchorState{})

	require.Len(t, errors, 1)
	require.Equal(t, verifier.ErrorSignaturesMissing, errors[0].ErrorType)
	require.Equal(t, table.BoundingRegions, errors[0].BoundingRegions)

	// An empty table does not establish anchors.
	require.Nil(t, anchors.AuthorCell)
}

func TestEvaluateAuthorDateMissing(t *testing.T) {
	table, spans := styledTable(1, [][]string{
		{"John Smith", "Author", "J. Smith", "sometime in june"},
	})

	result := &analyzer.Result{
		Tables: []analyzer.Table{table},
		Styles: []analyzer.Style{
			handwrittenStyle(spans["J. Smith"], spans["sometime in june"]),
		},
	}

	errors, anchors := verifier.Evaluate("doc.pdf", 1, result, verifier.AnchorState{})

	require.Equal(t, []verifier.ErrorType{verifier.ErrorAuthorDateMissing}, errorTypes(errors))
	require.Equal(t, "j. smith", errors[0].Content)

	require.NotNil(t, anchors.AuthorCell)
	require.Empty(t, anchors.AuthorDate)
}

func TestEvaluatePhilipsDateFormatOnFirstPage(t *testing.T) {
	table, spans := styledTable(1, [][]string{
		{"Jane Doe", "Philips Representative", "J. Doe", "2024-03-15"},
	})

	result := &analyzer.Result{
		Tables: []analyzer.Table{table},
		Styles: []analyzer.Style{
			handwrittenStyle(spans["J. Doe"], spans["2024-03-15"]),
		},
	}

	errors, anchors := verifier.Evaluate("doc.pdf", 1, result, verifier.AnchorState{})

	// The date parses but is not in the required dd-MMM-yyyy notation.
	require.Equal(t, []verifier.ErrorType{verifier.ErrorPhilipsDateFormat}, errorTypes(errors))
	require.Equal(t, "2024-03-15", anchors.PhilipsDate)
}

func TestEvaluatePhilipsDateFormatOnLaterPage(t *testing.T) {
	table, spans := styledTable(3, [][]string{
		{"Jane Doe", "Philips Representative", "J. Doe", "March 2024"},
	})

	result := &analyzer.Result{
		Tables: []analyzer.Table{table},
		Styles: []analyzer.Style{
			handwrittenStyle(spans["J. Doe"], spans["March 2024"]),
		},
	}

	errors, _ := verifier.Evaluate("doc.pdf", 3, result, verifier.AnchorState{})

	// Both the per-person check and the table-wide check fire on later
	// pages, so the finding is reported twice.
	types := errorTypes(errors)

	require.Equal(t, []verifier.ErrorType{verifier.ErrorPhilipsDateFormat, verifier.ErrorPhilipsDateFormat}, types)
}

func TestEvaluateSignaturePairs(t *testing.T) {
	page := lines(2, "Completed by: Alice", "Completion date: 01-Jan-2024")

	result := &analyzer.Result{
		Pages: []analyzer.Page{page},
		Styles: []analyzer.Style{
			handwrittenStyle(page.Lines[1].Spans...),
			colorStyle("#1030E0", page.Lines[1].Spans...),
		},
	}

	errors, _ := verifier.Evaluate("doc.pdf", 2, result, verifier.AnchorState{})

	require.Equal(t, []verifier.ErrorType{
		verifier.ErrorSignatureNotHandwritten,
		verifier.ErrorDateNotBlack,
	}, errorTypes(errors))

	require.Equal(t, "alice", errors[0].Content)
	require.Equal(t, "01-jan-2024", errors[1].Content)
}

func TestEvaluateEmptySignaturePair(t *testing.T) {
	page := lines(2, "Completed by:", "Completion date:")

	result := &analyzer.Result{
		Pages: []analyzer.Page{page},
	}

	errors, _ := verifier.Evaluate("doc.pdf", 2, result, verifier.AnchorState{})

	require.Len(t, errors, 1)
	require.Equal(t, verifier.ErrorSignaturesMissing, errors[0].ErrorType)
	require.Len(t, errors[0].BoundingRegions, 2)
}

func TestEvaluateCleanPage(t *testing.T) {
	table, spans := styledTable(1, [][]string{
		{"John Smith", "Author", "J. Smith", "01-Jan-2024"},
		{"Jane Doe", "Philips Representative", "J. Doe", "15-Mar-2024"},
	})

	result := &analyzer.Result{
		Pages:  []analyzer.Page{lines(1, "Page 1 of 3")},
		Tables: []analyzer.Table{table},
		Styles: []analyzer.Style{
			handwrittenStyle(spans["J. Smith"], spans["01-Jan-2024"], spans["J. Doe"], spans["15-Mar-2024"]),
		},
	}

	errors, anchors := verifier.Evaluate("doc.pdf", 1, result, verifier.AnchorState{})

	require.Empty(t, errors)
	require.Equal(t, "2024-01-01", anchors.AuthorDate)
	require.Equal(t, "2024-03-15", anchors.PhilipsDate)
}
