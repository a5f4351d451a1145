package verifier

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zhuxiaohai/philips-medical/pkg/analyzer"
)

const (
	markerSignature = "completed by"
	markerDate      = "completion date"
)

// ExtractSignatureTables returns every table whose header row names at least
// a "signature" and a "date" column, with each data row mapped to a Person.
// Cells map to fields by substring match on their header text; a header that
// matches nothing leaves that field absent.
func ExtractSignatureTables(result *analyzer.Result) []SignatureTable {
	var tables []SignatureTable

	for _, table := range result.Tables {
		headers := map[int]string{}

		for _, cell := range table.Cells {
			if cell.RowIndex == 0 {
				headers[cell.ColumnIndex] = strings.ToLower(strings.TrimSpace(cell.Content))
			}
		}

		if !isSignatureHeader(headers) {
			continue
		}

		extracted := SignatureTable{
			RowCount:    table.RowCount,
			ColumnCount: table.ColumnCount,

			BoundingRegions: table.BoundingRegions,
		}

		for row := 1; row < table.RowCount; row++ {
			var person Person

			for _, cell := range table.Cells {
				if cell.RowIndex != row {
					continue
				}

				header := headers[cell.ColumnIndex]
				content := strings.ToLower(strings.TrimSpace(cell.Content))

				switch {
				case strings.Contains(header, "name") || strings.Contains(header, "print"):
					person.Name = content

				case strings.Contains(header, "role") || strings.Contains(header, "title"):
					person.Role = content

				case strings.Contains(header, "signature"):
					person.Signature = FieldValue{
						Content: content,

						Spans:           cell.Spans,
						BoundingRegions: cell.BoundingRegions,
					}

				case strings.Contains(header, "date"):
					person.Date = FieldValue{
						Content: content,

						Spans:           cell.Spans,
						BoundingRegions: cell.BoundingRegions,
					}
				}
			}

			extracted.Persons = append(extracted.Persons, person)
		}

		tables = append(tables, extracted)
	}

	return tables
}

func isSignatureHeader(headers map[int]string) bool {
	var signature, date bool

	for _, header := range headers {
		if header == "signature" {
			signature = true
		}

		if header == "date" {
			date = true
		}
	}

	return signature && date
}

// ExtractSignaturePairs scans every text line in document order for
// "completed by" and "completion date" markers and pairs the k-th signature
// with the k-th date. Pairing stops when either queue runs out; the two
// markers are assumed to alternate in matched order.
func ExtractSignaturePairs(result *analyzer.Result) []SignaturePair {
	var signatures, dates []FieldValue

	for _, page := range result.Pages {
		for i := 0; i < len(page.Lines); i++ {
			line := page.Lines[i]
			text := strings.ToLower(line.Content)

			if strings.Contains(text, markerSignature) {
				value := afterMarker(text, markerSignature)

				// Signatures are often printed on the following line. Do not
				// consume it when it is itself a date marker.
				if value == "" && i+1 < len(page.Lines) && !strings.Contains(strings.ToLower(page.Lines[i+1].Content), markerDate) {
					i++
					line = page.Lines[i]
					value = strings.ToLower(strings.TrimSpace(line.Content))
				}

				signatures = append(signatures, lineField(value, line, page.Number))
			} else if strings.Contains(text, markerDate) {
				value := afterMarker(text, markerDate)

				if value == "" && i+1 < len(page.Lines) {
					i++
					line = page.Lines[i]
					value = strings.ToLower(strings.TrimSpace(line.Content))
				}

				dates = append(dates, lineField(value, line, page.Number))
			}
		}
	}

	var pairs []SignaturePair

	for i := 0; i < len(signatures) && i < len(dates); i++ {
		pairs = append(pairs, SignaturePair{
			Signature: signatures[i],
			Date:      dates[i],
		})
	}

	return pairs
}

// afterMarker returns the text following the last occurrence of the marker,
// skipping past a colon if one follows.
func afterMarker(text, marker string) string {
	idx := strings.LastIndex(text, marker)
	context := strings.TrimSpace(text[idx+len(marker):])

	if colon := strings.Index(context, ":"); colon >= 0 {
		context = context[colon+1:]
	}

	return strings.TrimSpace(context)
}

func lineField(content string, line analyzer.Line, pageNumber int) FieldValue {
	return FieldValue{
		Content: content,

		Spans: line.Spans,
		BoundingRegions: []analyzer.BoundingRegion{
			{PageNumber: pageNumber, Polygon: line.Polygon},
		},
	}
}

var pageNumberPattern = regexp.MustCompile(`(?i)page\s*[^0-9]*\s*(\d+)`)

// PageNumberMark is an OCR-detected printed page number and where it was
// found.
type PageNumberMark struct {
	Printed int

	Content string

	Spans           []analyzer.Span
	BoundingRegions []analyzer.BoundingRegion
}

// ExtractPageNumbers finds the first printed page-number marker on each page,
// keyed by the structural page number.
func ExtractPageNumbers(result *analyzer.Result) map[int]PageNumberMark {
	marks := map[int]PageNumberMark{}

	for _, page := range result.Pages {
		for _, line := range page.Lines {
			match := pageNumberPattern.FindStringSubmatch(strings.TrimSpace(line.Content))

			if match == nil {
				continue
			}

			printed, err := strconv.Atoi(match[1])

			if err != nil {
				continue
			}

			marks[page.Number] = PageNumberMark{
				Printed: printed,

				Content: line.Content,

				Spans: line.Spans,
				BoundingRegions: []analyzer.BoundingRegion{
					{PageNumber: page.Number, Polygon: line.Polygon},
				},
			}

			break
		}
	}

	return marks
}
