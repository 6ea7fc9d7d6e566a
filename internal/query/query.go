// Package query derives filtered views and summary counts from the
// authoritative employee collection. Everything here is a pure function:
// no state, no side effects, safe to recompute on every read.
package query

import (
	"errors"
	"strings"

	"github.com/aanand-mishra/employees-api/internal/types"
)

var (
	ErrInvalidGender = errors.New("query: invalid gender filter")
	ErrInvalidStatus = errors.New("query: invalid status filter")
)

// GenderFilter is "all" or one of the gender values.
type GenderFilter string

// StatusFilter selects active, inactive or all records.
type StatusFilter string

const (
	GenderAll GenderFilter = "all"

	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
)

// Criteria is what the user typed into the search box and picked in the
// two dropdowns. The zero value matches every record.
type Criteria struct {
	SearchText string
	Gender     GenderFilter
	Status     StatusFilter
}

// Summary holds the counts shown above the list.
type Summary struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// ParseCriteria builds Criteria from raw strings (e.g. a query string).
// Both filters ignore case. Empty gender or status means "all"; anything
// unknown is rejected.
func ParseCriteria(search, gender, status string) (Criteria, error) {
	c := Criteria{SearchText: search, Gender: GenderAll, Status: StatusAll}

	if g := strings.TrimSpace(gender); g != "" && !strings.EqualFold(g, string(GenderAll)) {
		canonical, ok := lookupGender(g)
		if !ok {
			return Criteria{}, ErrInvalidGender
		}
		c.Gender = GenderFilter(canonical)
	}

	switch s := StatusFilter(strings.ToLower(strings.TrimSpace(status))); s {
	case "", StatusAll:
	case StatusActive, StatusInactive:
		c.Status = s
	default:
		return Criteria{}, ErrInvalidStatus
	}

	return c, nil
}

// lookupGender matches g against the known genders ignoring case, the
// same way the status filter is matched.
func lookupGender(g string) (types.Gender, bool) {
	for _, known := range types.Genders {
		if strings.EqualFold(g, string(known)) {
			return known, true
		}
	}
	return "", false
}

// Matches reports whether e satisfies all three predicates of c.
func (c Criteria) Matches(e types.Employee) bool {
	return matchesSearch(e, c.SearchText) &&
		matchesGender(e, c.Gender) &&
		matchesStatus(e, c.Status)
}

// Filter returns the records of employees that match c, in their
// original order. The input slice is never modified; the result is a
// fresh slice (never nil) so callers can encode it as [].
func Filter(employees []types.Employee, c Criteria) []types.Employee {
	out := make([]types.Employee, 0, len(employees))
	for _, e := range employees {
		if c.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Count reduces the collection to its summary counts.
// Pass the full collection, not a filtered view.
func Count(employees []types.Employee) Summary {
	s := Summary{Total: len(employees)}
	for _, e := range employees {
		if e.Active {
			s.Active++
		}
	}
	s.Inactive = s.Total - s.Active
	return s
}

func matchesSearch(e types.Employee, text string) bool {
	if text == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.FullName), strings.ToLower(text))
}

func matchesGender(e types.Employee, g GenderFilter) bool {
	return g == "" || g == GenderAll || string(e.Gender) == string(g)
}

func matchesStatus(e types.Employee, s StatusFilter) bool {
	switch s {
	case StatusActive:
		return e.Active
	case StatusInactive:
		return !e.Active
	default:
		return true
	}
}
