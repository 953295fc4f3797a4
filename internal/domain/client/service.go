package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/casework/casework/internal/domain/note"
	"github.com/casework/casework/internal/domain/reminder"
	"github.com/casework/casework/pkg/pagination"
)

const timelineLimit = 10

// NoteSource is the slice of the note service clients depend on.
type NoteSource interface {
	List(ctx context.Context, clientID string, pg pagination.Params) ([]*note.Note, int, error)
}

// ReminderSource is the slice of the reminder service clients depend on.
type ReminderSource interface {
	List(ctx context.Context, f reminder.Filter, pg pagination.Params) ([]*reminder.Reminder, int, error)
}

type Service struct {
	repo      Repository
	notes     NoteSource
	reminders ReminderSource
	now       func() time.Time
}

func NewService(repo Repository, notes NoteSource, reminders ReminderSource) *Service {
	return &Service{repo: repo, notes: notes, reminders: reminders, now: time.Now}
}

func (s *Service) Create(ctx context.Context, c *Client) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Age < 0 {
		return fmt.Errorf("age must not be negative")
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.LastContact.IsZero() {
		c.LastContact = s.now().UTC()
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id string) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, query string, pg pagination.Params) ([]*Client, int, error) {
	return s.repo.Search(ctx, query, pg.Limit, pg.Offset)
}

// Stats counts the client's notes and the open and overdue reminders
// related to the client as of now.
func (s *Service) Stats(ctx context.Context, id string, now time.Time) (*Stats, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	_, noteCount, err := s.notes.List(ctx, id, pagination.Params{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}
	open := false
	pending, _, err := s.reminders.List(ctx, reminder.Filter{ClientID: id, Completed: &open}, pagination.Params{})
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	st := &Stats{Notes: noteCount, OpenReminders: len(pending)}
	for _, r := range pending {
		if r.IsOverdue(now) {
			st.OverdueReminders++
		}
	}
	return st, nil
}

// Timeline returns the client's ten most recent notes, newest first.
func (s *Service) Timeline(ctx context.Context, id string) ([]*note.Note, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	items, _, err := s.notes.List(ctx, id, pagination.Params{Limit: timelineLimit})
	if err != nil {
		return nil, err
	}
	return items, nil
}
