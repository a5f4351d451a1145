package verifier

import (
	"strings"

	"github.com/zhuxiaohai/philips-medical/pkg/analyzer"
)

// Evaluate applies every verification rule to one page's layout result and
// returns the findings in encounter order. Rules never short-circuit each
// other; a single field can violate several rules at once.
//
// On page 1 the first recognized signature table also establishes the anchor
// state, which is returned for the caller to freeze and pass into the
// evaluation of every later page.
func Evaluate(fileName string, pageNumber int, result *analyzer.Result, anchors AnchorState) ([]DocumentError, AnchorState) {
	// Initialized non-nil so an error-free page serializes as an empty list.
	errors := []DocumentError{}

	record := func(errorType ErrorType, content string, regions []analyzer.BoundingRegion) {
		errors = append(errors, DocumentError{
			FileName:   fileName,
			ErrorType:  errorType,
			PageNumber: pageNumber,
			Content:    content,

			BoundingRegions: regions,
		})
	}

	handwritten := HandwrittenIndex(result.Styles)
	colored := ColorIndex(result.Styles)

	for structural, mark := range ExtractPageNumbers(result) {
		if structural != mark.Printed {
			record(ErrorPageNumberInvalid, mark.Content, mark.BoundingRegions)
		}
	}

	for tableIdx, table := range ExtractSignatureTables(result) {
		personCount := 0

		for _, person := range table.Persons {
			if person.Signature.Content == "" && person.Date.Content == "" {
				continue
			}

			if len(person.Signature.Spans) > 0 && !handwritten.Intersects(person.Signature.Spans) {
				record(ErrorSignatureNotHandwritten, person.Signature.Content, person.Signature.BoundingRegions)
			}

			if len(person.Date.Spans) > 0 && !handwritten.Intersects(person.Date.Spans) {
				record(ErrorDateNotHandwritten, person.Date.Content, person.Date.BoundingRegions)
			}

			if len(person.Signature.Spans) > 0 && colored.Intersects(person.Signature.Spans) {
				record(ErrorSignatureNotBlack, person.Signature.Content, person.Signature.BoundingRegions)
			}

			if len(person.Date.Spans) > 0 && colored.Intersects(person.Date.Spans) {
				record(ErrorDateNotBlack, person.Date.Content, person.Date.BoundingRegions)
			}

			if strings.Contains(person.Role, "philips") && !IsValidDateFormat(person.Date.Content) && pageNumber > 1 {
				record(ErrorPhilipsDateFormat, person.Date.Content, person.Date.BoundingRegions)
			}

			personCount++
		}

		if personCount == 0 {
			record(ErrorSignaturesMissing, "", table.BoundingRegions)
		}

		if pageNumber == 1 && tableIdx == 0 && personCount > 0 {
			anchors = ResolveAnchors(table)

			if anchors.AuthorCell != nil && anchors.AuthorDate == "" {
				record(ErrorAuthorDateMissing, anchors.AuthorCell.Signature.Content, anchors.AuthorCell.Date.BoundingRegions)
			}

			if anchors.PhilipsCell != nil && anchors.PhilipsDate == "" {
				record(ErrorPhilipsDateMissing, anchors.PhilipsCell.Signature.Content, anchors.PhilipsCell.Date.BoundingRegions)
			}

			if anchors.PhilipsCell != nil && !IsValidDateFormat(anchors.PhilipsCell.Date.Content) {
				record(ErrorPhilipsDateFormat, anchors.PhilipsCell.Date.Content, anchors.PhilipsCell.Date.BoundingRegions)
			}
		}

		for _, person := range table.Persons {
			date := FormatDate(person.Date.Content)

			if date != "" && anchors.AuthorDate != "" && date < anchors.AuthorDate {
				record(ErrorDateAheadOfAuthor, person.Date.Content, person.Date.BoundingRegions)
			}

			if date != "" && anchors.PhilipsDate != "" && date > anchors.PhilipsDate {
				record(ErrorDateBehindPhilips, person.Date.Content, person.Date.BoundingRegions)
			}

			if pageNumber > 1 || tableIdx > 0 {
				if strings.Contains(person.Role, "philips") && !IsValidDateFormat(person.Date.Content) {
					record(ErrorPhilipsDateFormat, person.Date.Content, person.Date.BoundingRegions)
				}
			}
		}
	}

	for _, pair := range ExtractSignaturePairs(result) {
		if pair.Signature.Content == "" && pair.Date.Content == "" {
			regions := append(append([]analyzer.BoundingRegion{}, pair.Signature.BoundingRegions...), pair.Date.BoundingRegions...)

			record(ErrorSignaturesMissing, "", regions)
			continue
		}

		if len(pair.Signature.Spans) > 0 && !handwritten.Intersects(pair.Signature.Spans) {
			record(ErrorSignatureNotHandwritten, pair.Signature.Content, pair.Signature.BoundingRegions)
		}

		if len(pair.Date.Spans) > 0 && !handwritten.Intersects(pair.Date.Spans) {
			record(ErrorDateNotHandwritten, pair.Date.Content, pair.Date.BoundingRegions)
		}

		if len(pair.Signature.Spans) > 0 && colored.Intersects(pair.Signature.Spans) {
			record(ErrorSignatureNotBlack, pair.Signature.Content, pair.Signature.BoundingRegions)
		}

		if len(pair.Date.Spans) > 0 && colored.Intersects(pair.Date.Spans) {
			record(ErrorDateNotBlack, pair.Date.Content, pair.Date.BoundingRegions)
		}

		date := FormatDate(pair.Date.Content)

		if date != "" && anchors.AuthorDate != "" && date < anchors.AuthorDate {
			record(ErrorDateAheadOfAuthor, pair.Date.Content, pair.Date.BoundingRegions)
		}

		if date != "" && anchors.PhilipsDate != "" && date > anchors.PhilipsDate {
			record(ErrorDateBehindPhilips, pair.Date.Content, pair.Date.BoundingRegions)
		}
	}

	return errors, anchors
}
