package query

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/employees-api/internal/types"
)

func emp(id, name string, g types.Gender, active bool) types.Employee {
	return types.Employee{
		ID:          id,
		FullName:    name,
		Gender:      g,
		DateOfBirth: types.NewDate(1990, time.January, 1),
		State:       "Karnataka",
		Active:      active,
	}
}

func sample() []types.Employee {
	return []types.Employee{
		emp("1", "Asha Rao", types.GenderFemale, true),
		emp("2", "Ravi Kumar", types.GenderMale, true),
		emp("3", "Sasha Iyer", types.GenderFemale, false),
		emp("4", "Kiran Das", types.GenderOther, false),
		emp("5", "ASHWIN Menon", types.GenderMale, true),
	}
}

func ids(es []types.Employee) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "zero criteria matches everything",
			criteria: Criteria{},
			want:     []string{"1", "2", "3", "4", "5"},
		},
		{
			name:     "explicit all",
			criteria: Criteria{Gender: GenderAll, Status: StatusAll},
			want:     []string{"1", "2", "3", "4", "5"},
		},
		{
			name:     "search is a case-insensitive substring",
			criteria: Criteria{SearchText: "ash"},
			want:     []string{"1", "3", "5"},
		},
		{
			name:     "search upper case",
			criteria: Criteria{SearchText: "KUMAR"},
			want:     []string{"2"},
		},
		{
			name:     "gender only",
			criteria: Criteria{Gender: GenderFilter(types.GenderFemale)},
			want:     []string{"1", "3"},
		},
		{
			name:     "active only",
			criteria: Criteria{Status: StatusActive},
			want:     []string{"1", "2", "5"},
		},
		{
			name:     "inactive only",
			criteria: Criteria{Status: StatusInactive},
			want:     []string{"3", "4"},
		},
		{
			name: "all three predicates are combined with AND",
			criteria: Criteria{
				SearchText: "ash",
				Gender:     GenderFilter(types.GenderFemale),
				Status:     StatusActive,
			},
			want: []string{"1"},
		},
		{
			name:     "no match yields empty, not nil",
			criteria: Criteria{SearchText: "zzz"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(sample(), tt.criteria)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_ScenarioSearchAsha(t *testing.T) {
	collection := []types.Employee{
		emp("1", "Asha Rao", types.GenderFemale, true),
		emp("2", "Ravi Kumar", types.GenderMale, true),
	}

	got := Filter(collection, Criteria{SearchText: "asha", Gender: GenderAll, Status: StatusAll})

	require.Len(t, got, 1)
	assert.Equal(t, "Asha Rao", got[0].FullName)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	in := sample()
	before := make([]types.Employee, len(in))
	copy(before, in)

	_ = Filter(in, Criteria{Status: StatusInactive})

	assert.Equal(t, before, in)
}

// Randomized check against a straightforward oracle: the result is
// exactly the matching subset in original order, and filtering the
// result again changes nothing.
func TestFilter_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	names := []string{"Asha", "Ravi", "Meera", "Arjun", "Kiran", "Neha"}
	genders := []GenderFilter{"", GenderAll, "Male", "Female", "Other"}
	statuses := []StatusFilter{"", StatusAll, StatusActive, StatusInactive}
	searches := []string{"", "a", "AR", "iv", "xyz", "Neha"}

	for round := 0; round < 200; round++ {
		n := rng.Intn(15)
		collection := make([]types.Employee, 0, n)
		for i := 0; i < n; i++ {
			collection = append(collection, emp(
				fmt.Sprintf("%d-%d", round, i),
				names[rng.Intn(len(names))]+" "+names[rng.Intn(len(names))],
				types.Genders[rng.Intn(len(types.Genders))],
				rng.Intn(2) == 0,
			))
		}

		c := Criteria{
			SearchText: searches[rng.Intn(len(searches))],
			Gender:     genders[rng.Intn(len(genders))],
			Status:     statuses[rng.Intn(len(statuses))],
		}

		var want []string
		for _, e := range collection {
			if c.Matches(e) {
				want = append(want, e.ID)
			}
		}
		if want == nil {
			want = []string{}
		}

		got := Filter(collection, c)
		assert.Equal(t, want, ids(got))
		assert.Equal(t, got, Filter(got, c), "filter must be idempotent")
	}
}

func TestCount(t *testing.T) {
	s := Count(sample())
	assert.Equal(t, Summary{Total: 5, Active: 3, Inactive: 2}, s)
	assert.Equal(t, s.Total, s.Active+s.Inactive)

	assert.Equal(t, Summary{}, Count(nil))
}

func TestParseCriteria(t *testing.T) {
	tests := []struct {
		name    string
		search  string
		gender  string
		status  string
		want    Criteria
		wantErr error
	}{
		{
			name: "empty defaults to all",
			want: Criteria{Gender: GenderAll, Status: StatusAll},
		},
		{
			name:   "explicit values",
			search: "asha",
			gender: "Female",
			status: "inactive",
			want:   Criteria{SearchText: "asha", Gender: "Female", Status: StatusInactive},
		},
		{
			name:   "status is case-insensitive",
			status: "ACTIVE",
			want:   Criteria{Gender: GenderAll, Status: StatusActive},
		},
		{
			name:   "gender is case-insensitive and canonicalised",
			gender: " female ",
			want:   Criteria{Gender: "Female", Status: StatusAll},
		},
		{
			name:   "all in any case",
			gender: "ALL",
			status: "All",
			want:   Criteria{Gender: GenderAll, Status: StatusAll},
		},
		{
			name:    "unknown gender",
			gender:  "robot",
			wantErr: ErrInvalidGender,
		},
		{
			name:    "unknown status",
			status:  "retired",
			wantErr: ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCriteria(tt.search, tt.gender, tt.status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
