package resource

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/casework/casework/internal/platform/events"
	"github.com/casework/casework/pkg/pagination"
)

const defaultRelatedLimit = 3

// SearchResult is one page of a directory query.
type SearchResult struct {
	Items       []Resource
	Total       int
	Explanation string
}

type Service struct {
	repo      Repository
	favorites FavoriteStore
	pub       events.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(repo Repository, favorites FavoriteStore, pub events.Publisher, logger zerolog.Logger) *Service {
	if favorites == nil {
		favorites = NewMemoryFavorites()
	}
	if pub == nil {
		pub = &events.NoopPublisher{}
	}
	return &Service{
		repo:      repo,
		favorites: favorites,
		pub:       pub,
		logger:    logger.With().Str("component", "resource").Logger(),
		now:       time.Now,
	}
}

// Search runs the query engine over the directory and pages the result.
func (s *Service) Search(ctx context.Context, f Filters, key SortKey, pg pagination.Params) (*SearchResult, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	matched := Query(all, f, key)
	return &SearchResult{
		Items:       pagination.Slice(matched, pg),
		Total:       len(matched),
		Explanation: Explain(f.SearchQuery),
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

// Related returns up to limit other resources of the same type in
// directory order. limit <= 0 uses the default of 3.
func (s *Service) Related(ctx context.Context, id string, limit int) ([]Resource, error) {
	if limit <= 0 {
		limit = defaultRelatedLimit
	}
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	related := make([]Resource, 0, limit)
	for _, r := range all {
		if r.ID == res.ID || r.Type != res.Type {
			continue
		}
		related = append(related, r)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

func (s *Service) ToggleFavorite(ctx context.Context, userID, resourceID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("user is required")
	}
	if _, err := s.repo.GetByID(ctx, resourceID); err != nil {
		return false, err
	}
	fav, err := s.favorites.Toggle(ctx, userID, resourceID)
	if err != nil {
		return false, err
	}
	evt := events.FavoriteToggled{ResourceID: resourceID, UserID: userID, Favorite: fav, Timestamp: s.now().UTC()}
	if err := s.pub.Publish(ctx, events.TopicFavoriteToggled, evt); err != nil {
		s.logger.Warn().Err(err).Str("resource_id", resourceID).Msg("publish favorite toggled")
	}
	return fav, nil
}

func (s *Service) IsFavorite(ctx context.Context, userID, resourceID string) (bool, error) {
	return s.favorites.IsFavorite(ctx, userID, resourceID)
}

// Favorites returns the user's favorite resources in directory order.
// Ids that no longer resolve are skipped.
func (s *Service) Favorites(ctx context.Context, userID string) ([]Resource, error) {
	ids, err := s.favorites.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Resource{}, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	out := make([]Resource, 0, len(ids))
	for _, r := range all {
		if want[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

// Export writes the full query result (unpaged) as an XLSX workbook.
func (s *Service) Export(ctx context.Context, f Filters, key SortKey, w io.Writer) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list resources: %w", err)
	}
	matched := Query(all, f, key)
	if err := WriteXLSX(w, matched); err != nil {
		return 0, err
	}
	return len(matched), nil
}
