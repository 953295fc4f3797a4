package resource

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filters is a set of independently optional predicates. The zero value
// matches every resource. Slice fields are active when non-empty, pointer
// fields when non-nil.
type Filters struct {
	SearchQuery        string
	Types              []ResourceType
	BedStatus          []BedStatus
	AcceptsWalkIns     *bool
	AcceptsCoOccurring *bool
	RequiresSobriety   *bool
	OpenNow            bool
	MaxDistance        *float64
	GenderRestrictions []string
}

type SortKey string

const (
	SortDistance SortKey = "distance"
	SortName     SortKey = "name"
	SortUpdated  SortKey = "updated"
	SortBeds     SortKey = "beds"
)

// ParseSortKey accepts the four known keys. Empty input defaults to distance.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortDistance, nil
	case SortDistance, SortName, SortUpdated, SortBeds:
		return k, nil
	default:
		return "", fmt.Errorf("invalid sort key: %q", s)
	}
}

// Filter returns the resources passing every active predicate, in input
// order. The input slice is not modified.
func Filter(resources []Resource, f Filters) []Resource {
	query := ""
	if strings.TrimSpace(f.SearchQuery) != "" {
		query = strings.ToLower(f.SearchQuery)
	}

	out := make([]Resource, 0, len(resources))
	for _, r := range resources {
		if query != "" && !matchesQuery(r, query) {
			continue
		}
		if len(f.Types) > 0 && !containsType(f.Types, r.Type) {
			continue
		}
		if len(f.BedStatus) > 0 && (r.BedStatus == nil || !containsBedStatus(f.BedStatus, *r.BedStatus)) {
			continue
		}
		if f.AcceptsWalkIns != nil && r.AcceptsWalkIns != *f.AcceptsWalkIns {
			continue
		}
		if f.AcceptsCoOccurring != nil && r.AcceptsCoOccurring != *f.AcceptsCoOccurring {
			continue
		}
		if f.RequiresSobriety != nil && r.RequiresSobriety != *f.RequiresSobriety {
			continue
		}
		if f.OpenNow && r.Status != StatusOpen {
			continue
		}
		if f.MaxDistance != nil && *f.MaxDistance > 0 && (r.Distance == nil || *r.Distance > *f.MaxDistance) {
			continue
		}
		if len(f.GenderRestrictions) > 0 && !genderAllowed(r.GenderRestriction, f.GenderRestrictions) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesQuery(r Resource, query string) bool {
	if strings.Contains(strings.ToLower(r.Name), query) ||
		strings.Contains(strings.ToLower(r.Description), query) ||
		strings.Contains(strings.ToLower(string(r.Type)), query) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func containsType(set []ResourceType, t ResourceType) bool {
	for _, v := range set {
		if v == t {
			return true
		}
	}
	return false
}

func containsBedStatus(set []BedStatus, b BedStatus) bool {
	for _, v := range set {
		if v == b {
			return true
		}
	}
	return false
}

func genderAllowed(restriction *string, allowed []string) bool {
	if restriction == nil || *restriction == GenderNone {
		return true
	}
	for _, g := range allowed {
		if g == *restriction {
			return true
		}
	}
	return false
}

// Sort returns a stably ordered copy. Unknown keys return the copy in input order.
func Sort(resources []Resource, key SortKey) []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)

	switch key {
	case SortDistance:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].Distance, out[j].Distance
			if a == nil || b == nil {
				return a != nil && b == nil
			}
			return *a < *b
		})
	case SortName:
		// collate.Collator keeps internal buffers, so each call gets its own.
		col := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Name, out[j].Name) < 0
		})
	case SortUpdated:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].LastUpdated.After(out[j].LastUpdated)
		})
	case SortBeds:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := bedsOrZero(out[i]), bedsOrZero(out[j])
			if a <= 0 || b <= 0 {
				return a > 0 && b <= 0
			}
			return a > b
		})
	}
	return out
}

// bedsOrZero folds a missing count into zero; both sort as "no availability".
func bedsOrZero(r Resource) int {
	if r.BedsAvailable == nil {
		return 0
	}
	return *r.BedsAvailable
}

// Query filters then sorts.
func Query(resources []Resource, f Filters, key SortKey) []Resource {
	return Sort(Filter(resources, f), key)
}
