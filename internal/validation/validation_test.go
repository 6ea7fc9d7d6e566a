package validation

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/employees-api/internal/image"
	"github.com/aanand-mishra/employees-api/internal/types"
)

var today = time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return New(WithClock(func() time.Time { return today }))
}

func valid() types.EmployeeInput {
	return types.EmployeeInput{
		FullName:    "Asha Rao",
		Gender:      types.GenderFemale,
		DateOfBirth: types.NewDate(1990, time.January, 1),
		State:       "Karnataka",
	}
}

func strPtr(s string) *string { return &s }

func TestValidate_Valid(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.Validate(valid()))

	bornToday := valid()
	bornToday.DateOfBirth = types.DateOf(today)
	assert.NoError(t, v.Validate(bornToday), "today is not in the future")

	twoChars := valid()
	twoChars.FullName = "  Al  "
	assert.NoError(t, v.Validate(twoChars))

	withImage := valid()
	png := "\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"
	withImage.ProfileImage = strPtr("data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(png)))
	assert.NoError(t, v.Validate(withImage))

	emptyImage := valid()
	emptyImage.ProfileImage = strPtr("")
	assert.NoError(t, v.Validate(emptyImage), "empty image means no image")
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.EmployeeInput)
		field  string
		msg    string
	}{
		{
			name:   "missing name",
			mutate: func(in *types.EmployeeInput) { in.FullName = "" },
			field:  "fullName",
			msg:    "Full name is required",
		},
		{
			name:   "whitespace name",
			mutate: func(in *types.EmployeeInput) { in.FullName = "    " },
			field:  "fullName",
			msg:    "Full name is required",
		},
		{
			name:   "short name",
			mutate: func(in *types.EmployeeInput) { in.FullName = " A " },
			field:  "fullName",
			msg:    "Full name must be at least 2 characters",
		},
		{
			name:   "missing gender",
			mutate: func(in *types.EmployeeInput) { in.Gender = "" },
			field:  "gender",
			msg:    "Gender is required",
		},
		{
			name:   "unknown gender",
			mutate: func(in *types.EmployeeInput) { in.Gender = "female" },
			field:  "gender",
			msg:    "Gender must be Male, Female or Other",
		},
		{
			name:   "missing date of birth",
			mutate: func(in *types.EmployeeInput) { in.DateOfBirth = types.Date{} },
			field:  "dateOfBirth",
			msg:    "Date of birth is required",
		},
		{
			name:   "date of birth tomorrow",
			mutate: func(in *types.EmployeeInput) { in.DateOfBirth = types.DateOf(today.AddDate(0, 0, 1)) },
			field:  "dateOfBirth",
			msg:    "Date of birth cannot be in the future",
		},
		{
			name:   "missing state",
			mutate: func(in *types.EmployeeInput) { in.State = "" },
			field:  "state",
			msg:    "State is required",
		},
		{
			name:   "unknown state",
			mutate: func(in *types.EmployeeInput) { in.State = "Atlantis" },
			field:  "state",
			msg:    "State must be a valid state",
		},
		{
			name:   "image is a file path",
			mutate: func(in *types.EmployeeInput) { in.ProfileImage = strPtr("C:/photos/me.png") },
			field:  "profileImage",
			msg:    "Please select a valid image file",
		},
		{
			name: "image is too large",
			mutate: func(in *types.EmployeeInput) {
				big := make([]byte, image.MaxSize+1)
				copy(big, "\x89PNG\r\n\x1a\n")
				in.ProfileImage = strPtr("data:image/png;base64," + base64.StdEncoding.EncodeToString(big))
			},
			field: "profileImage",
			msg:   "Image size must be less than 5MB",
		},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)

			err := v.Validate(in)
			require.Error(t, err)

			var fieldErrs Errors
			require.True(t, errors.As(err, &fieldErrs))
			assert.Equal(t, Errors{tt.field: tt.msg}, fieldErrs)
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	v := newTestValidator()

	err := v.Validate(types.EmployeeInput{})

	var fieldErrs Errors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Len(t, fieldErrs, 4)
	assert.Contains(t, fieldErrs, "fullName")
	assert.Contains(t, fieldErrs, "gender")
	assert.Contains(t, fieldErrs, "dateOfBirth")
	assert.Contains(t, fieldErrs, "state")
	assert.Contains(t, err.Error(), "dateOfBirth: Date of birth is required")
}

func TestNormalize(t *testing.T) {
	in := valid()
	in.FullName = "  Asha Rao \t"
	in.State = " Kerala "
	in.ProfileImage = strPtr("  ")

	got := Normalize(in)

	assert.Equal(t, "Asha Rao", got.FullName)
	assert.Equal(t, "Kerala", got.State)
	assert.Nil(t, got.ProfileImage)
	assert.Nil(t, got.Active, "an absent flag stays absent")

	inactive := false
	in.Active = &inactive
	assert.False(t, *Normalize(in).Active)
}

// Name length is counted in characters (runes), not bytes or UTF-16 units.
func TestValidate_NameLengthCountsCharacters(t *testing.T) {
	v := newTestValidator()

	in := valid()
	in.FullName = "😀"
	err := v.Validate(in)
	var fieldErrs Errors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "Full name must be at least 2 characters", fieldErrs["fullName"])

	for _, name := range []string{"😀😀", "Åsa", "李明"} {
		in.FullName = name
		assert.NoError(t, v.Validate(in), name)
	}
}
