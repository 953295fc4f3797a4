package note

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/casework/casework/internal/platform/events"
	"github.com/casework/casework/internal/platform/fieldcrypt"
	"github.com/casework/casework/pkg/pagination"
)

type Service struct {
	repo   Repository
	sealer *fieldcrypt.Sealer
	pub    events.Publisher
	logger zerolog.Logger
	now    func() time.Time
}

// NewService wires the note store. A nil sealer stores plaintext and a nil
// publisher drops events.
func NewService(repo Repository, sealer *fieldcrypt.Sealer, pub events.Publisher, logger zerolog.Logger) *Service {
	if pub == nil {
		pub = &events.NoopPublisher{}
	}
	return &Service{
		repo:   repo,
		sealer: sealer,
		pub:    pub,
		logger: logger.With().Str("component", "note").Logger(),
		now:    time.Now,
	}
}

// Create starts an empty note with the given title.
func (s *Service) Create(ctx context.Context, title string, clientID *string, userID string) (*Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if clientID != nil && strings.TrimSpace(*clientID) == "" {
		clientID = nil
	}
	now := s.now().UTC()
	n := &Note{
		ClientID:  clientID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		Encrypted: s.sealer.Enabled(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TopicNoteCreated, n, userID)
	return n, nil
}

// Import stores an existing note, keeping its id and timestamps.
func (s *Service) Import(ctx context.Context, n Note) error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("note %q: title is required", n.ID)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}
	n.Encrypted = s.sealer.Enabled()
	if err := s.sealer.Seal(n.sealedFields()...); err != nil {
		return fmt.Errorf("seal note %q: %w", n.ID, err)
	}
	return s.repo.Create(ctx, &n)
}

func (s *Service) Get(ctx context.Context, id string) (*Note, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.open(n); err != nil {
		return nil, err
	}
	return n, nil
}

// List returns notes newest first, optionally restricted to one client.
func (s *Service) List(ctx context.Context, clientID string, pg pagination.Params) ([]*Note, int, error) {
	items, total, err := s.repo.List(ctx, ListFilter{ClientID: clientID}, pg.Limit, pg.Offset)
	if err != nil {
		return nil, 0, err
	}
	for _, n := range items {
		if err := s.open(n); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

// Update replaces the note body and bumps updated_at.
func (s *Service) Update(ctx context.Context, id string, u Update, userID string) (*Note, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	n.Content, n.Purpose, n.Intervention, n.FollowUp = u.Content, u.Purpose, u.Intervention, u.FollowUp
	n.UpdatedAt = s.now().UTC()
	n.Encrypted = s.sealer.Enabled()

	stored := *n
	if err := s.sealer.Seal(stored.sealedFields()...); err != nil {
		return nil, fmt.Errorf("seal note: %w", err)
	}
	if err := s.repo.Update(ctx, &stored); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TopicNoteUpdated, n, userID)
	return n, nil
}

func (s *Service) Delete(ctx context.Context, id string, userID string) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.TopicNoteDeleted, n, userID)
	return nil
}

// open decrypts a stored note. Notes written before encryption was enabled
// are returned as stored.
func (s *Service) open(n *Note) error {
	if !n.Encrypted {
		return nil
	}
	if !s.sealer.Enabled() {
		return fmt.Errorf("note %s is encrypted but no key is configured", n.ID)
	}
	if err := s.sealer.Open(n.sealedFields()...); err != nil {
		return fmt.Errorf("open note %s: %w", n.ID, err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, topic string, n *Note, userID string) {
	evt := events.NoteChanged{NoteID: n.ID, UserID: userID, Timestamp: s.now().UTC()}
	if n.ClientID != nil {
		evt.ClientID = *n.ClientID
	}
	if err := s.pub.Publish(ctx, topic, evt); err != nil {
		s.logger.Warn().Err(err).Str("topic", topic).Str("note_id", n.ID).Msg("publish note event")
	}
}
