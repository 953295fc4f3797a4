package contact

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryCrisis     Category = "crisis"
	CategoryHotline    Category = "hotline"
	CategoryMobileTeam Category = "mobile-team"
	CategoryPolice     Category = "police"
	CategoryClinic     Category = "clinic"
)

// categoryOrder is the display order for grouped contacts.
var categoryOrder = []Category{CategoryCrisis, CategoryHotline, CategoryMobileTeam, CategoryPolice, CategoryClinic}

type EmergencyContact struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Organization *string  `json:"organization,omitempty"`
	Phone        string   `json:"phone"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Region       *string  `json:"region,omitempty"`
}

func (c *EmergencyContact) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(c.Phone) == "" {
		return fmt.Errorf("phone is required")
	}
	for _, cat := range categoryOrder {
		if c.Category == cat {
			return nil
		}
	}
	return fmt.Errorf("invalid category: %q", c.Category)
}

type SafetyTip struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (t *SafetyTip) Validate() error {
	if strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("id and title are required")
	}
	return nil
}

// Group is one category of a grouped contact listing.
type Group struct {
	Category Category           `json:"category"`
	Contacts []EmergencyContact `json:"contacts"`
}
