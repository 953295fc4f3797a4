package reminder

import (
	"fmt"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var validPriorities = map[Priority]bool{PriorityLow: true, PriorityMedium: true, PriorityHigh: true}

type RelatedType string

const (
	RelatedResource RelatedType = "resource"
	RelatedClient   RelatedType = "client"
	RelatedNote     RelatedType = "note"
)

var validRelatedTypes = map[RelatedType]bool{RelatedResource: true, RelatedClient: true, RelatedNote: true}

// RelatedTo links a reminder to a resource, client or note. Name is a
// display label captured at creation.
type RelatedTo struct {
	Type RelatedType `json:"type"`
	ID   string      `json:"id"`
	Name string      `json:"name"`
}

type Reminder struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	DueDate     time.Time  `json:"due_date"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	RelatedTo   *RelatedTo `json:"related_to,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsOverdue reports whether an open reminder is past due at now.
func (r *Reminder) IsOverdue(now time.Time) bool {
	return !r.Completed && r.DueDate.Before(now)
}

// Filter narrows List. ClientID is shorthand for RelatedType client plus
// RelatedID; it wins when both are set.
type Filter struct {
	ClientID    string
	RelatedType RelatedType
	RelatedID   string
	Completed   *bool
}

func (f Filter) normalized() Filter {
	if f.ClientID != "" {
		f.RelatedType = RelatedClient
		f.RelatedID = f.ClientID
		f.ClientID = ""
	}
	return f
}

func (f Filter) matches(r *Reminder) bool {
	if f.Completed != nil && r.Completed != *f.Completed {
		return false
	}
	if f.RelatedType == "" && f.RelatedID == "" {
		return true
	}
	if r.RelatedTo == nil {
		return false
	}
	if f.RelatedType != "" && r.RelatedTo.Type != f.RelatedType {
		return false
	}
	return f.RelatedID == "" || r.RelatedTo.ID == f.RelatedID
}

func ParseRelatedType(s string) (RelatedType, error) {
	t := RelatedType(s)
	if !validRelatedTypes[t] {
		return "", fmt.Errorf("invalid related type: %q", s)
	}
	return t, nil
}
