package resource

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type ResourceType string

const (
	TypeShelter        ResourceType = "shelter"
	TypeFood           ResourceType = "food"
	TypeClothing       ResourceType = "clothing"
	TypeHygiene        ResourceType = "hygiene"
	TypeMedical        ResourceType = "medical"
	TypeMentalHealth   ResourceType = "mental-health"
	TypeRehab          ResourceType = "rehab"
	TypeTransportation ResourceType = "transportation"
	TypeEmployment     ResourceType = "employment"
	TypeHousing        ResourceType = "housing"
	TypeLegal          ResourceType = "legal"
	TypeOther          ResourceType = "other"
)

var validTypes = map[ResourceType]bool{
	TypeShelter: true, TypeFood: true, TypeClothing: true, TypeHygiene: true,
	TypeMedical: true, TypeMentalHealth: true, TypeRehab: true, TypeTransportation: true,
	TypeEmployment: true, TypeHousing: true, TypeLegal: true, TypeOther: true,
}

type BedStatus string

const (
	BedsAvailable BedStatus = "available"
	BedsLimited   BedStatus = "limited"
	BedsFull      BedStatus = "full"
	BedsUnknown   BedStatus = "unknown"
)

var validBedStatuses = map[BedStatus]bool{
	BedsAvailable: true, BedsLimited: true, BedsFull: true, BedsUnknown: true,
}

type Status string

const (
	StatusOpen          Status = "open"
	StatusClosed        Status = "closed"
	StatusByAppointment Status = "by-appointment"
)

var validStatuses = map[Status]bool{
	StatusOpen: true, StatusClosed: true, StatusByAppointment: true,
}

// Gender restriction values. An absent restriction behaves like GenderNone.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderNone   = "none"
)

var validGenders = map[string]bool{GenderMale: true, GenderFemale: true, GenderNone: true}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Resource is a directory entry for a community service location.
// BedsAvailable <= BedsTotal is advisory and never enforced.
type Resource struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        ResourceType `json:"type"`
	Description string       `json:"description"`
	Address     string       `json:"address"`
	Phone       string       `json:"phone"`
	Website     *string      `json:"website,omitempty"`
	Email       *string      `json:"email,omitempty"`
	Hours       *string      `json:"hours,omitempty"`

	BedStatus     *BedStatus `json:"bed_status,omitempty"`
	BedsAvailable *int       `json:"beds_available,omitempty"`
	BedsTotal     *int       `json:"beds_total,omitempty"`
	Status        Status     `json:"status"`

	AcceptsWalkIns     bool     `json:"accepts_walk_ins"`
	RequiresSobriety   bool     `json:"requires_sobriety"`
	AcceptsCoOccurring bool     `json:"accepts_co_occurring"`
	GenderRestriction  *string  `json:"gender_restriction,omitempty"`
	AgeRestriction     *string  `json:"age_restriction,omitempty"`
	InsuranceAccepted  []string `json:"insurance_accepted,omitempty"`

	Curfew      *string      `json:"curfew,omitempty"`
	Tags        []string     `json:"tags"`
	Distance    *float64     `json:"distance,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	LastUpdated time.Time    `json:"last_updated"`
	Notes       *string      `json:"notes,omitempty"`
}

// Validate rejects records the query engine must never see: unknown
// enumeration values and missing identity fields.
func (r *Resource) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !validTypes[r.Type] {
		return fmt.Errorf("invalid type: %q", r.Type)
	}
	if !validStatuses[r.Status] {
		return fmt.Errorf("invalid status: %q", r.Status)
	}
	if r.BedStatus != nil && !validBedStatuses[*r.BedStatus] {
		return fmt.Errorf("invalid bed_status: %q", *r.BedStatus)
	}
	if r.GenderRestriction != nil && !validGenders[*r.GenderRestriction] {
		return fmt.Errorf("invalid gender_restriction: %q", *r.GenderRestriction)
	}
	if r.BedsAvailable != nil && *r.BedsAvailable < 0 {
		return fmt.Errorf("beds_available must not be negative")
	}
	if r.BedsTotal != nil && *r.BedsTotal < 0 {
		return fmt.Errorf("beds_total must not be negative")
	}
	if r.Distance != nil && (!finite(*r.Distance) || *r.Distance < 0) {
		return fmt.Errorf("distance must be a finite non-negative number")
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func ParseType(s string) (ResourceType, error) {
	t := ResourceType(strings.ToLower(strings.TrimSpace(s)))
	if !validTypes[t] {
		return "", fmt.Errorf("invalid resource type: %q", s)
	}
	return t, nil
}

func ParseBedStatus(s string) (BedStatus, error) {
	b := BedStatus(strings.ToLower(strings.TrimSpace(s)))
	if !validBedStatuses[b] {
		return "", fmt.Errorf("invalid bed status: %q", s)
	}
	return b, nil
}

func ParseGender(s string) (string, error) {
	g := strings.ToLower(strings.TrimSpace(s))
	if !validGenders[g] {
		return "", fmt.Errorf("invalid gender restriction: %q", s)
	}
	return g, nil
}

// Types lists every resource type in declaration order.
func Types() []ResourceType {
	return []ResourceType{
		TypeShelter, TypeFood, TypeClothing, TypeHygiene, TypeMedical, TypeMentalHealth,
		TypeRehab, TypeTransportation, TypeEmployment, TypeHousing, TypeLegal, TypeOther,
	}
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
