package resource

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParseFilters builds Filters from query parameters. Multi-valued keys
// (type, bed_status, gender) accept repeats and comma-separated lists.
func ParseFilters(q url.Values) (Filters, error) {
	f := Filters{SearchQuery: q.Get("q")}

	for _, v := range splitMulti(q["type"]) {
		t, err := ParseType(v)
		if err != nil {
			return Filters{}, err
		}
		f.Types = append(f.Types, t)
	}
	for _, v := range splitMulti(q["bed_status"]) {
		b, err := ParseBedStatus(v)
		if err != nil {
			return Filters{}, err
		}
		f.BedStatus = append(f.BedStatus, b)
	}
	for _, v := range splitMulti(q["gender"]) {
		g, err := ParseGender(v)
		if err != nil {
			return Filters{}, err
		}
		f.GenderRestrictions = append(f.GenderRestrictions, g)
	}

	var err error
	if f.AcceptsWalkIns, err = optBool(q, "walk_ins"); err != nil {
		return Filters{}, err
	}
	if f.AcceptsCoOccurring, err = optBool(q, "co_occurring"); err != nil {
		return Filters{}, err
	}
	if f.RequiresSobriety, err = optBool(q, "sobriety"); err != nil {
		return Filters{}, err
	}
	open, err := optBool(q, "open_now")
	if err != nil {
		return Filters{}, err
	}
	f.OpenNow = open != nil && *open

	if raw := strings.TrimSpace(q.Get("max_distance")); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil || !finite(d) || d < 0 {
			return Filters{}, fmt.Errorf("invalid max_distance: %q", raw)
		}
		f.MaxDistance = &d
	}
	return f, nil
}

func splitMulti(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func optBool(q url.Values, key string) (*bool, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return &b, nil
}
