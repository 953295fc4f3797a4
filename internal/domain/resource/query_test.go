package resource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func ids(rs []Resource) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixture() []Resource {
	return []Resource{
		{
			ID: "r1", Name: "Harbor Light Shelter", Type: TypeShelter, Status: StatusOpen,
			Description: "Emergency overnight beds", Tags: []string{"Emergency", "24/7"},
			BedStatus: ptr(BedsAvailable), BedsAvailable: ptr(5), BedsTotal: ptr(40),
			AcceptsWalkIns: true, GenderRestriction: ptr(GenderNone), Distance: ptr(1.2),
			LastUpdated: base.Add(-2 * time.Hour),
		},
		{
			ID: "r2", Name: "New Beginnings Recovery", Type: TypeRehab, Status: StatusByAppointment,
			Description: "Residential treatment", Tags: []string{"Rehab Program", "Dual diagnosis"},
			BedStatus: ptr(BedsLimited), BedsAvailable: ptr(3),
			AcceptsCoOccurring: true, RequiresSobriety: true, GenderRestriction: ptr(GenderMale),
			Distance: ptr(4.5), LastUpdated: base.Add(-1 * time.Hour),
		},
		{
			ID: "r3", Name: "Community Food Bank", Type: TypeFood, Status: StatusOpen,
			Description: "Groceries and hot meals", Tags: []string{"No ID"},
			AcceptsWalkIns: true, LastUpdated: base.Add(-48 * time.Hour),
		},
		{
			ID: "r4", Name: "Women's Safe Haven", Type: TypeShelter, Status: StatusClosed,
			Description: "Shelter for women and children", Tags: []string{"DV"},
			BedStatus: ptr(BedsFull), BedsAvailable: ptr(0), GenderRestriction: ptr(GenderFemale),
			Distance: ptr(0.8), LastUpdated: base,
		},
	}
}

func TestFilter_EmptyFiltersKeepsEverything(t *testing.T) {
	in := fixture()
	assert.Equal(t, ids(in), ids(Filter(in, Filters{})))
}

func TestFilter_SubsetWithoutDuplicates(t *testing.T) {
	in := fixture()
	cases := []Filters{
		{},
		{SearchQuery: "shelter"},
		{Types: []ResourceType{TypeShelter, TypeFood}},
		{BedStatus: []BedStatus{BedsAvailable, BedsFull}},
		{AcceptsWalkIns: ptr(true), OpenNow: true},
		{MaxDistance: ptr(2.0), GenderRestrictions: []string{GenderFemale}},
	}
	known := map[string]bool{}
	for _, r := range in {
		known[r.ID] = true
	}
	for _, f := range cases {
		out := Filter(in, f)
		seen := map[string]bool{}
		for _, r := range out {
			assert.True(t, known[r.ID], "unknown id %s", r.ID)
			assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
			seen[r.ID] = true
		}
		assert.Equal(t, ids(out), ids(Filter(out, f)), "filter should be idempotent for %+v", f)
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	in := fixture()
	before := ids(in)
	Filter(in, Filters{Types: []ResourceType{TypeFood}})
	Sort(in, SortName)
	assert.Equal(t, before, ids(in))
}

func TestFilter_SearchQuery(t *testing.T) {
	in := fixture()

	assert.Equal(t, []string{"r2"}, ids(Filter(in, Filters{SearchQuery: "REHAB"})), "tag match is case-insensitive")
	assert.Equal(t, []string{"r3"}, ids(Filter(in, Filters{SearchQuery: "hot meals"})), "description match")
	assert.Equal(t, []string{"r3"}, ids(Filter(in, Filters{SearchQuery: "food"})), "type name match")
	assert.Equal(t, ids(in), ids(Filter(in, Filters{SearchQuery: "   "})), "blank query is a no-op")
	assert.Empty(t, Filter(in, Filters{SearchQuery: "zzz"}))
}

func TestFilter_BedStatusExcludesMissing(t *testing.T) {
	out := Filter(fixture(), Filters{BedStatus: []BedStatus{BedsAvailable, BedsLimited, BedsFull, BedsUnknown}})
	assert.Equal(t, []string{"r1", "r2", "r4"}, ids(out))
}

func TestFilter_BooleanFlags(t *testing.T) {
	in := fixture()
	assert.Equal(t, []string{"r1", "r3"}, ids(Filter(in, Filters{AcceptsWalkIns: ptr(true)})))
	assert.Equal(t, []string{"r2", "r4"}, ids(Filter(in, Filters{AcceptsWalkIns: ptr(false)})))
	assert.Equal(t, []string{"r2"}, ids(Filter(in, Filters{AcceptsCoOccurring: ptr(true)})))
	assert.Equal(t, []string{"r1", "r3", "r4"}, ids(Filter(in, Filters{RequiresSobriety: ptr(false)})))
	assert.Equal(t, []string{"r1", "r3"}, ids(Filter(in, Filters{OpenNow: true})))
}

func TestFilter_MaxDistance(t *testing.T) {
	in := fixture()
	assert.Equal(t, []string{"r1", "r4"}, ids(Filter(in, Filters{MaxDistance: ptr(2.0)})), "missing distance is excluded")
	assert.Equal(t, ids(in), ids(Filter(in, Filters{MaxDistance: ptr(0.0)})), "zero bound is inactive")
}

func TestFilter_GenderRestrictions(t *testing.T) {
	out := Filter(fixture(), Filters{GenderRestrictions: []string{GenderFemale}})
	assert.Equal(t, []string{"r1", "r3", "r4"}, ids(out))
}

func TestFilter_Conjunction(t *testing.T) {
	out := Filter(fixture(), Filters{Types: []ResourceType{TypeShelter}, OpenNow: true, AcceptsWalkIns: ptr(true)})
	assert.Equal(t, []string{"r1"}, ids(out))
}

func TestSort_Distance(t *testing.T) {
	in := []Resource{
		{ID: "A", Distance: ptr(2.0)},
		{ID: "B"},
		{ID: "C", Distance: ptr(1.0)},
	}
	assert.Equal(t, []string{"C", "A", "B"}, ids(Sort(in, SortDistance)))
}

func TestSort_DistanceMissingKeepsInputOrder(t *testing.T) {
	in := []Resource{{ID: "x"}, {ID: "a", Distance: ptr(3.0)}, {ID: "y"}, {ID: "z"}}
	assert.Equal(t, []string{"a", "x", "y", "z"}, ids(Sort(in, SortDistance)))
}

func TestSort_Beds(t *testing.T) {
	in := []Resource{
		{ID: "zero", BedsAvailable: ptr(0)},
		{ID: "five", BedsAvailable: ptr(5)},
		{ID: "none"},
		{ID: "three", BedsAvailable: ptr(3)},
	}
	assert.Equal(t, []string{"five", "three", "zero", "none"}, ids(Sort(in, SortBeds)))
}

func TestSort_Updated(t *testing.T) {
	assert.Equal(t, []string{"r4", "r2", "r1", "r3"}, ids(Sort(fixture(), SortUpdated)))
}

func TestSort_NameLocaleAware(t *testing.T) {
	in := []Resource{
		{ID: "1", Name: "zeta house"},
		{ID: "2", Name: "Émile Center"},
		{ID: "3", Name: "alpha place"},
		{ID: "4", Name: "Beta Clinic"},
	}
	assert.Equal(t, []string{"3", "4", "2", "1"}, ids(Sort(in, SortName)))
}

func TestSort_StableAndIdempotent(t *testing.T) {
	in := []Resource{
		{ID: "a", Name: "Same", Distance: ptr(1.0), BedsAvailable: ptr(2), LastUpdated: base},
		{ID: "b", Name: "Same", Distance: ptr(1.0), BedsAvailable: ptr(2), LastUpdated: base},
		{ID: "c", Name: "Same", Distance: ptr(1.0), BedsAvailable: ptr(2), LastUpdated: base},
	}
	for _, key := range []SortKey{SortDistance, SortName, SortUpdated, SortBeds} {
		once := Sort(in, key)
		assert.Equal(t, []string{"a", "b", "c"}, ids(once), "ties keep input order for %s", key)
		assert.Equal(t, ids(once), ids(Sort(once, key)), "sort is idempotent for %s", key)
	}
}

func TestSort_UnknownKeyCopies(t *testing.T) {
	in := fixture()
	out := Sort(in, SortKey("popularity"))
	require.Len(t, out, len(in))
	assert.Equal(t, ids(in), ids(out))
	out[0].Name = "changed"
	assert.NotEqual(t, "changed", in[0].Name)
}

func TestQuery_EmptyFilterSortedByName(t *testing.T) {
	out := Query(fixture(), Filters{}, SortName)
	assert.Equal(t, []string{"r3", "r1", "r2", "r4"}, ids(out))
}

func TestQuery_FilterThenSort(t *testing.T) {
	out := Query(fixture(), Filters{Types: []ResourceType{TypeShelter}}, SortDistance)
	assert.Equal(t, []string{"r4", "r1"}, ids(out))
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in      string
		want    SortKey
		wantErr bool
	}{
		{"", SortDistance, false},
		{"name", SortName, false},
		{" Beds ", SortBeds, false},
		{"updated", SortUpdated, false},
		{"rating", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSortKey(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
