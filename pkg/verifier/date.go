package verifier

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

var dateFormatPattern = regexp.MustCompile(`^\d{1,2}[-.\s]*[A-Za-z]{3}[-.\s]*\d{4}$`)

// IsValidDateFormat checks the shape "1-2 digits, separators, 3-letter month
// abbreviation, separators, 4 digits". A format check only, independent of
// whether the text parses to a real date.
func IsValidDateFormat(text string) bool {
	return dateFormatPattern.MatchString(text)
}

// dateLayouts is tried in order; non-padded day and month tokens accept both
// padded and unpadded digits.
var dateLayouts = []string{
	"2006-1-2",
	"2006-1.2",
	"2006.1-2",
	"2006.1.2",
	"2006/1/2",
	"2.Jan-2006",
	"2.Jan.2006",
	"2.Jan2006",
	"2-Jan-2006",
	"2-Jan.2006",
	"2-Jan2006",
	"2Jan-2006",
	"2Jan.2006",
	"2Jan2006",
}

// FormatDate normalizes heterogeneous date text to canonical YYYY-MM-DD.
// Unparseable input yields ""; callers exclude such dates from chronological
// comparisons instead of flagging them here.
func FormatDate(text string) string {
	text = stripSpaces(text)

	if text == "" {
		return ""
	}

	text = capitalizeMonth(text)

	for _, layout := range dateLayouts {
		date, err := time.Parse(layout, text)

		if err != nil {
			continue
		}

		return date.Format("2006-01-02")
	}

	return ""
}

func stripSpaces(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, text)
}

// capitalizeMonth rewrites letter runs to title case so lower-cased OCR text
// like "01-jan-2024" matches the month abbreviations time.Parse expects.
func capitalizeMonth(text string) string {
	var b strings.Builder

	upper := true

	for _, r := range text {
		if !unicode.IsLetter(r) {
			upper = true

			b.WriteRune(r)
			continue
		}

		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
	}

	return b.String()
}
