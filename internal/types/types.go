// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, the record store and the query engine can all import
// types without depending on each other.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Gender is one of the three values the directory records.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders lists every valid Gender in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

// States is the fixed list of region names an employee may belong to.
var States = []string{
	"Andhra Pradesh",
	"Arunachal Pradesh",
	"Assam",
	"Bihar",
	"Chhattisgarh",
	"Goa",
	"Gujarat",
	"Haryana",
	"Himachal Pradesh",
	"Jharkhand",
	"Karnataka",
	"Kerala",
	"Madhya Pradesh",
	"Maharashtra",
	"Manipur",
	"Meghalaya",
	"Mizoram",
	"Nagaland",
	"Odisha",
	"Punjab",
	"Rajasthan",
	"Sikkim",
	"Tamil Nadu",
	"Telangana",
	"Tripura",
	"Uttar Pradesh",
	"Uttarakhand",
	"West Bengal",
}

// IsState reports whether name is in States (exact match).
func IsState(name string) bool {
	for _, s := range States {
		if s == name {
			return true
		}
	}
	return false
}

// DateLayout is the wire format of a Date: a plain calendar day.
const DateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day or zone component.
//
// It is encoded to JSON as "YYYY-MM-DD" (the same format an HTML date
// input produces) and as null when zero.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// String returns "YYYY-MM-DD", or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// IsAfter reports whether d is a later day than other.
func (d Date) IsAfter(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: expected a string", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Employee represents one employee record in the directory.
//
// Struct tags:
//
//  1. json:"..." — the stored and wire field names. They match the names
//     the directory has always persisted, so older documents still load.
//
//  2. ProfileImage is a self-contained data URL ("data:image/png;base64,…")
//     rather than a file path, so a record is portable on its own.
//     nil means "no image" and encodes as null.
type Employee struct {
	ID           string  `json:"id"`
	FullName     string  `json:"fullName"`
	Gender       Gender  `json:"gender"`
	DateOfBirth  Date    `json:"dateOfBirth"`
	State        string  `json:"state"`
	Active       bool    `json:"active"`
	ProfileImage *string `json:"profileImage"`
}

// Clone returns a deep copy of e (the image pointer is not shared).
func (e Employee) Clone() Employee {
	if e.ProfileImage != nil {
		img := *e.ProfileImage
		e.ProfileImage = &img
	}
	return e
}

// EmployeeInput is a candidate record: every field except the ID, which
// only the record store assigns.
//
// Active is a pointer so that an omitted flag can default to true.
// validate:"..." tags are checked by internal/validation before the input
// reaches the store; the store itself trusts what it is given.
type EmployeeInput struct {
	FullName     string  `json:"fullName"     validate:"required,notblank2"`
	Gender       Gender  `json:"gender"       validate:"required,gender"`
	DateOfBirth  Date    `json:"dateOfBirth"  validate:"required,notfuture"`
	State        string  `json:"state"        validate:"required,region"`
	Active       *bool   `json:"active"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,imagedata"`
}

// IsActive returns the effective active flag (true when unset).
func (in EmployeeInput) IsActive() bool {
	return in.Active == nil || *in.Active
}

// ToEmployee builds the record for in under the given id.
func (in EmployeeInput) ToEmployee(id string) Employee {
	e := Employee{
		ID:          id,
		FullName:    in.FullName,
		Gender:      in.Gender,
		DateOfBirth: in.DateOfBirth,
		State:       in.State,
		Active:      in.IsActive(),
	}
	if in.ProfileImage != nil {
		img := *in.ProfileImage
		e.ProfileImage = &img
	}
	return e
}
