// Package directory loads reference and seed data (resources, contacts,
// safety tips, clients, notes, reminders) from a YAML or TOML file that may
// live in the binary, on disk, or in S3.
package directory

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/casework/casework/internal/domain/client"
	"github.com/casework/casework/internal/domain/contact"
	"github.com/casework/casework/internal/domain/note"
	"github.com/casework/casework/internal/domain/reminder"
	"github.com/casework/casework/internal/domain/resource"
)

type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

// FormatFor picks the decoder from a file name: .toml is TOML, anything else YAML.
func FormatFor(name string) Format {
	if strings.EqualFold(path.Ext(name), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Directory is a decoded and validated directory file.
type Directory struct {
	Resources  []resource.Resource
	Contacts   []contact.EmergencyContact
	SafetyTips []contact.SafetyTip
	Clients    []client.Client
	Notes      []note.Note
	Reminders  []reminder.Reminder
}

type file struct {
	Resources  []resourceRecord `yaml:"resources" toml:"resources"`
	Contacts   []contactRecord  `yaml:"contacts" toml:"contacts"`
	SafetyTips []tipRecord      `yaml:"safety_tips" toml:"safety_tips"`
	Clients    []clientRecord   `yaml:"clients" toml:"clients"`
	Notes      []noteRecord     `yaml:"notes" toml:"notes"`
	Reminders  []reminderRecord `yaml:"reminders" toml:"reminders"`
}

type coordinatesRecord struct {
	Lat float64 `yaml:"lat" toml:"lat"`
	Lng float64 `yaml:"lng" toml:"lng"`
}

type resourceRecord struct {
	ID                 string             `yaml:"id" toml:"id"`
	Name               string             `yaml:"name" toml:"name"`
	Type               string             `yaml:"type" toml:"type"`
	Description        string             `yaml:"description" toml:"description"`
	Address            string             `yaml:"address" toml:"address"`
	Phone              string             `yaml:"phone" toml:"phone"`
	Website            *string            `yaml:"website" toml:"website"`
	Email              *string            `yaml:"email" toml:"email"`
	Hours              *string            `yaml:"hours" toml:"hours"`
	BedStatus          *string            `yaml:"bed_status" toml:"bed_status"`
	BedsAvailable      *int               `yaml:"beds_available" toml:"beds_available"`
	BedsTotal          *int               `yaml:"beds_total" toml:"beds_total"`
	Status             string             `yaml:"status" toml:"status"`
	AcceptsWalkIns     bool               `yaml:"accepts_walk_ins" toml:"accepts_walk_ins"`
	RequiresSobriety   bool               `yaml:"requires_sobriety" toml:"requires_sobriety"`
	AcceptsCoOccurring bool               `yaml:"accepts_co_occurring" toml:"accepts_co_occurring"`
	GenderRestriction  *string            `yaml:"gender_restriction" toml:"gender_restriction"`
	AgeRestriction     *string            `yaml:"age_restriction" toml:"age_restriction"`
	InsuranceAccepted  []string           `yaml:"insurance_accepted" toml:"insurance_accepted"`
	Curfew             *string            `yaml:"curfew" toml:"curfew"`
	Tags               []string           `yaml:"tags" toml:"tags"`
	Distance           *float64           `yaml:"distance" toml:"distance"`
	Coordinates        *coordinatesRecord `yaml:"coordinates" toml:"coordinates"`
	LastUpdated        time.Time          `yaml:"last_updated" toml:"last_updated"`
	Notes              *string            `yaml:"notes" toml:"notes"`
}

type contactRecord struct {
	ID           string  `yaml:"id" toml:"id"`
	Name         string  `yaml:"name" toml:"name"`
	Organization *string `yaml:"organization" toml:"organization"`
	Phone        string  `yaml:"phone" toml:"phone"`
	Description  string  `yaml:"description" toml:"description"`
	Category     string  `yaml:"category" toml:"category"`
	Region       *string `yaml:"region" toml:"region"`
}

type tipRecord struct {
	ID          string `yaml:"id" toml:"id"`
	Title       string `yaml:"title" toml:"title"`
	Description string `yaml:"description" toml:"description"`
}

type clientRecord struct {
	ID          string    `yaml:"id" toml:"id"`
	Name        string    `yaml:"name" toml:"name"`
	Age         int       `yaml:"age" toml:"age"`
	Gender      string    `yaml:"gender" toml:"gender"`
	Tags        []string  `yaml:"tags" toml:"tags"`
	LastContact time.Time `yaml:"last_contact" toml:"last_contact"`
}

type noteRecord struct {
	ID           string    `yaml:"id" toml:"id"`
	ClientID     *string   `yaml:"client_id" toml:"client_id"`
	Title        string    `yaml:"title" toml:"title"`
	Content      string    `yaml:"content" toml:"content"`
	Purpose      string    `yaml:"purpose" toml:"purpose"`
	Intervention string    `yaml:"intervention" toml:"intervention"`
	FollowUp     string    `yaml:"follow_up" toml:"follow_up"`
	CreatedAt    time.Time `yaml:"created_at" toml:"created_at"`
	UpdatedAt    time.Time `yaml:"updated_at" toml:"updated_at"`
}

type relatedRecord struct {
	Type string `yaml:"type" toml:"type"`
	ID   string `yaml:"id" toml:"id"`
	Name string `yaml:"name" toml:"name"`
}

type reminderRecord struct {
	ID          string         `yaml:"id" toml:"id"`
	Title       string         `yaml:"title" toml:"title"`
	Description *string        `yaml:"description" toml:"description"`
	DueDate     time.Time      `yaml:"due_date" toml:"due_date"`
	Completed   bool           `yaml:"completed" toml:"completed"`
	Priority    string         `yaml:"priority" toml:"priority"`
	RelatedTo   *relatedRecord `yaml:"related_to" toml:"related_to"`
	CreatedAt   time.Time      `yaml:"created_at" toml:"created_at"`
}

// Decode parses and validates a directory file. Unknown keys are rejected.
func Decode(data []byte, format Format) (*Directory, error) {
	var f file
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("decode toml: unknown key %q", undecoded[0].String())
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	}
	return f.toDirectory()
}

func (f *file) toDirectory() (*Directory, error) {
	d := &Directory{}

	for i, rec := range f.Resources {
		r := rec.toResource()
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("resources[%d] (%s): %w", i, rec.ID, err)
		}
		d.Resources = append(d.Resources, r)
	}
	for i, rec := range f.Contacts {
		c := contact.EmergencyContact{
			ID: rec.ID, Name: rec.Name, Organization: rec.Organization, Phone: rec.Phone,
			Description: rec.Description, Category: contact.Category(rec.Category), Region: rec.Region,
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("contacts[%d] (%s): %w", i, rec.ID, err)
		}
		d.Contacts = append(d.Contacts, c)
	}
	for i, rec := range f.SafetyTips {
		t := contact.SafetyTip{ID: rec.ID, Title: rec.Title, Description: rec.Description}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("safety_tips[%d]: %w", i, err)
		}
		d.SafetyTips = append(d.SafetyTips, t)
	}
	for i, rec := range f.Clients {
		if strings.TrimSpace(rec.ID) == "" || strings.TrimSpace(rec.Name) == "" {
			return nil, fmt.Errorf("clients[%d]: id and name are required", i)
		}
		tags := rec.Tags
		if tags == nil {
			tags = []string{}
		}
		d.Clients = append(d.Clients, client.Client{
			ID: rec.ID, Name: rec.Name, Age: rec.Age, Gender: rec.Gender, Tags: tags, LastContact: rec.LastContact,
		})
	}
	for i, rec := range f.Notes {
		if strings.TrimSpace(rec.ID) == "" {
			return nil, fmt.Errorf("notes[%d]: id is required", i)
		}
		d.Notes = append(d.Notes, note.Note{
			ID: rec.ID, ClientID: rec.ClientID, Title: rec.Title, Content: rec.Content,
			Purpose: rec.Purpose, Intervention: rec.Intervention, FollowUp: rec.FollowUp,
			CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt,
		})
	}
	for i, rec := range f.Reminders {
		if strings.TrimSpace(rec.ID) == "" {
			return nil, fmt.Errorf("reminders[%d]: id is required", i)
		}
		r := reminder.Reminder{
			ID: rec.ID, Title: rec.Title, Description: rec.Description, DueDate: rec.DueDate,
			Completed: rec.Completed, Priority: reminder.Priority(rec.Priority), CreatedAt: rec.CreatedAt,
		}
		if rec.RelatedTo != nil {
			t, err := reminder.ParseRelatedType(rec.RelatedTo.Type)
			if err != nil {
				return nil, fmt.Errorf("reminders[%d] (%s): %w", i, rec.ID, err)
			}
			r.RelatedTo = &reminder.RelatedTo{Type: t, ID: rec.RelatedTo.ID, Name: rec.RelatedTo.Name}
		}
		d.Reminders = append(d.Reminders, r)
	}
	return d, nil
}

func (rec resourceRecord) toResource() resource.Resource {
	r := resource.Resource{
		ID:                 rec.ID,
		Name:               rec.Name,
		Type:               resource.ResourceType(rec.Type),
		Description:        rec.Description,
		Address:            rec.Address,
		Phone:              rec.Phone,
		Website:            rec.Website,
		Email:              rec.Email,
		Hours:              rec.Hours,
		BedsAvailable:      rec.BedsAvailable,
		BedsTotal:          rec.BedsTotal,
		Status:             resource.Status(rec.Status),
		AcceptsWalkIns:     rec.AcceptsWalkIns,
		RequiresSobriety:   rec.RequiresSobriety,
		AcceptsCoOccurring: rec.AcceptsCoOccurring,
		GenderRestriction:  rec.GenderRestriction,
		AgeRestriction:     rec.AgeRestriction,
		InsuranceAccepted:  rec.InsuranceAccepted,
		Curfew:             rec.Curfew,
		Tags:               rec.Tags,
		Distance:           rec.Distance,
		LastUpdated:        rec.LastUpdated,
		Notes:              rec.Notes,
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if rec.BedStatus != nil {
		b := resource.BedStatus(*rec.BedStatus)
		r.BedStatus = &b
	}
	if rec.Coordinates != nil {
		r.Coordinates = &resource.Coordinates{Lat: rec.Coordinates.Lat, Lng: rec.Coordinates.Lng}
	}
	return r
}
