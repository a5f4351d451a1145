package verifier

import (
	"sort"
	"strconv"
	"strings"

	"github.com/zhuxiaohai/philips-medical/pkg/analyzer"
)

// SpanIndex groups the spans of styled text runs by a style key, either the
// handwriting flag or a color value. Spans per key are merged across runs and
// sorted by offset once, so the index can be probed many times per page.
type SpanIndex map[string][]analyzer.Span

// HandwrittenIndex collects the spans of every run classified as handwriting.
func HandwrittenIndex(styles []analyzer.Style) SpanIndex {
	index := SpanIndex{}

	for _, style := range styles {
		if !style.IsHandwritten {
			continue
		}

		index["handwritten"] = append(index["handwritten"], style.Spans...)
	}

	return index.sorted()
}

// ColorIndex collects the spans of every run whose color classifies as a
// deviation from black ink. Only blue-classified colors feed the "is not
// black" rules.
func ColorIndex(styles []analyzer.Style) SpanIndex {
	index := SpanIndex{}

	for _, style := range styles {
		if style.Color == "" {
			continue
		}

		if !isBlue(style.Color) {
			continue
		}

		index[style.Color] = append(index[style.Color], style.Spans...)
	}

	return index.sorted()
}

func (index SpanIndex) sorted() SpanIndex {
	for _, spans := range index {
		sort.Slice(spans, func(i, j int) bool {
			return spans[i].Offset < spans[j].Offset
		})
	}

	return index
}

// Intersects reports whether any target span overlaps any indexed span.
// An empty target list proves nothing and yields false; callers treat absent
// spans as "not checkable" rather than as a failure.
func (index SpanIndex) Intersects(targets []analyzer.Span) bool {
	if len(targets) == 0 {
		return false
	}

	for _, target := range targets {
		targetEnd := target.Offset + target.Length

		for _, spans := range index {
			for _, span := range spans {
				spanEnd := span.Offset + span.Length

				if targetEnd > span.Offset && spanEnd > target.Offset {
					return true
				}
			}
		}
	}

	return false
}

// isBlue decodes a hex color and classifies it as blue when the blue channel
// strictly exceeds both red and green. A heuristic proxy for "not black
// ink", not a general color classifier.
func isBlue(hex string) bool {
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) != 6 {
		return false
	}

	r, err := strconv.ParseUint(hex[0:2], 16, 8)

	if err != nil {
		return false
	}

	g, err := strconv.ParseUint(hex[2:4], 16, 8)

	if err != nil {
		return false
	}

	b, err := strconv.ParseUint(hex[4:6], 16, 8)

	if err != nil {
		return false
	}

	return b > r && b > g
}
