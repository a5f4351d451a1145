package verifier

import (
	"strings"
)

// ResolveAnchors picks the authoritative signers from a signature table: the
// author row with the earliest parsed date and the Philips row with the
// latest. First-seen wins exact ties. Any part may stay empty when no role
// matches or no date parses.
//
// Run once against the first recognized table of page 1; the result is
// frozen before any concurrent page work starts.
func ResolveAnchors(table SignatureTable) AnchorState {
	var state AnchorState

	for i := range table.Persons {
		person := table.Persons[i]

		if strings.Contains(person.Role, "author") {
			if state.AuthorCell == nil {
				state.AuthorCell = &table.Persons[i]
			}

			date := FormatDate(person.Date.Content)

			if date != "" && (state.AuthorDate == "" || date < state.AuthorDate) {
				state.AuthorCell = &table.Persons[i]
				state.AuthorDate = date
			}
		}

		if strings.Contains(person.Role, "philips") {
			if state.PhilipsCell == nil {
				state.PhilipsCell = &table.Persons[i]
			}

			date := FormatDate(person.Date.Content)

			if date != "" && (state.PhilipsDate == "" || date > state.PhilipsDate) {
				state.PhilipsCell = &table.Persons[i]
				state.PhilipsDate = date
			}
		}
	}

	return state
}
