// Package validation holds the rules every candidate employee must pass
// before it is handed to the record store. The store trusts its callers,
// so this is the one place the rules live.
//
// The rules are expressed as validate:"..." struct tags on
// types.EmployeeInput and checked with go-playground/validator, plus a
// few custom tags registered here:
//
//	notblank2 — at least 2 characters after trimming whitespace
//	gender    — one of types.Genders
//	notfuture — a calendar day no later than today
//	region    — one of types.States
//	imagedata — a data URL accepted by image.Check
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/employees-api/internal/image"
	"github.com/aanand-mishra/employees-api/internal/types"
)

// Errors maps a JSON field name to a human-readable message, so a form
// can annotate exactly the field that is wrong.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

// Validator checks EmployeeInput values. It is safe for concurrent use.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// Option customises a Validator.
type Option func(*Validator)

// WithClock fixes "today" for the date-of-birth rule (tests).
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// New builds a Validator with the custom tags registered.
func New(opts ...Option) *Validator {
	val := &Validator{
		v:   validator.New(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(val)
	}

	// Report JSON names ("fullName") rather than Go names ("FullName").
	val.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// types.Date embeds time.Time; validate it as the plain time.Time so
	// "required" sees the zero value.
	val.v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(types.Date); ok {
			return d.Time
		}
		return nil
	}, types.Date{})

	mustRegister(val.v, "notblank2", func(fl validator.FieldLevel) bool {
		return len([]rune(strings.TrimSpace(fl.Field().String()))) >= 2
	})
	mustRegister(val.v, "gender", func(fl validator.FieldLevel) bool {
		return types.Gender(fl.Field().String()).Valid()
	})
	mustRegister(val.v, "region", func(fl validator.FieldLevel) bool {
		return types.IsState(fl.Field().String())
	})
	mustRegister(val.v, "notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !types.DateOf(t).IsAfter(types.DateOf(val.now()))
	})
	mustRegister(val.v, "imagedata", func(fl validator.FieldLevel) bool {
		return image.Check(fl.Field().String()) == nil
	})

	return val
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Normalize returns in with the name and state trimmed and an empty
// image reference dropped. Active is left as sent: an absent flag means
// true on create and "unchanged" on update.
func Normalize(in types.EmployeeInput) types.EmployeeInput {
	in.FullName = strings.TrimSpace(in.FullName)
	in.State = strings.TrimSpace(in.State)
	if in.ProfileImage != nil && strings.TrimSpace(*in.ProfileImage) == "" {
		in.ProfileImage = nil
	}
	return in
}

// Validate checks the normalized form of in and returns nil or an
// Errors value. A name of only whitespace counts as missing.
func (val *Validator) Validate(in types.EmployeeInput) error {
	in = Normalize(in)

	err := val.v.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation: %w", err)
	}

	out := make(Errors, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(field, fe.Tag(), rawImage(in, field))
	}
	return out
}

// rawImage returns the raw value of an image field so its message can
// say whether size or type was the problem.
func rawImage(in types.EmployeeInput, field string) string {
	if field == "profileImage" && in.ProfileImage != nil {
		return *in.ProfileImage
	}
	return ""
}

func message(field, tag, raw string) string {
	switch field {
	case "fullName":
		if tag == "required" {
			return "Full name is required"
		}
		return "Full name must be at least 2 characters"
	case "gender":
		if tag == "required" {
			return "Gender is required"
		}
		return "Gender must be Male, Female or Other"
	case "dateOfBirth":
		if tag == "required" {
			return "Date of birth is required"
		}
		return "Date of birth cannot be in the future"
	case "state":
		if tag == "required" {
			return "State is required"
		}
		return "State must be a valid state"
	case "profileImage":
		if errors.Is(image.Check(raw), image.ErrTooLarge) {
			return "Image size must be less than 5MB"
		}
		return "Please select a valid image file"
	default:
		return fmt.Sprintf("field %s is invalid", field)
	}
}
