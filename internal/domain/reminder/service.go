package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/casework/casework/internal/platform/events"
	"github.com/casework/casework/pkg/pagination"
)

type Service struct {
	repo   Repository
	pub    events.Publisher
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, pub events.Publisher, logger zerolog.Logger) *Service {
	if pub == nil {
		pub = &events.NoopPublisher{}
	}
	return &Service{
		repo:   repo,
		pub:    pub,
		logger: logger.With().Str("component", "reminder").Logger(),
		now:    time.Now,
	}
}

func validate(r *Reminder) error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.DueDate.IsZero() {
		return fmt.Errorf("due_date is required")
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if !validPriorities[r.Priority] {
		return fmt.Errorf("invalid priority: %s", r.Priority)
	}
	if r.RelatedTo != nil {
		if !validRelatedTypes[r.RelatedTo.Type] {
			return fmt.Errorf("invalid related_to.type: %s", r.RelatedTo.Type)
		}
		if strings.TrimSpace(r.RelatedTo.ID) == "" {
			return fmt.Errorf("related_to.id is required")
		}
	}
	return nil
}

// Create stores a new open reminder.
func (s *Service) Create(ctx context.Context, r *Reminder) error {
	if err := validate(r); err != nil {
		return err
	}
	r.ID = ""
	r.Completed = false
	r.CreatedAt = s.now().UTC()
	return s.repo.Create(ctx, r)
}

// Import stores an existing reminder, keeping its id, state and timestamps.
func (s *Service) Import(ctx context.Context, r Reminder) error {
	if err := validate(&r); err != nil {
		return fmt.Errorf("reminder %q: %w", r.ID, err)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}
	return s.repo.Create(ctx, &r)
}

func (s *Service) Get(ctx context.Context, id string) (*Reminder, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns matching reminders, earliest due first.
func (s *Service) List(ctx context.Context, f Filter, pg pagination.Params) ([]*Reminder, int, error) {
	if f.RelatedType != "" && !validRelatedTypes[f.RelatedType] {
		return nil, 0, fmt.Errorf("invalid related_type: %s", f.RelatedType)
	}
	return s.repo.List(ctx, f, pg.Limit, pg.Offset)
}

// Complete marks a reminder done. Completing an already completed reminder
// is a no-op and publishes nothing.
func (s *Service) Complete(ctx context.Context, id, userID string) (*Reminder, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Completed {
		return r, nil
	}
	r.Completed = true
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	evt := events.ReminderCompleted{ReminderID: r.ID, UserID: userID, Timestamp: s.now().UTC()}
	if err := s.pub.Publish(ctx, events.TopicReminderCompleted, evt); err != nil {
		s.logger.Warn().Err(err).Str("reminder_id", r.ID).Msg("publish reminder completed")
	}
	return r, nil
}

// Now exposes the service clock so callers computing overdue state agree with it.
func (s *Service) Now() time.Time {
	return s.now()
}
