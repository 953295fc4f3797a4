package contact

import (
	"context"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search matches name, organization, description and category
// case-insensitively, using the query as typed. A blank query returns
// every contact.
func (s *Service) Search(ctx context.Context, query string) ([]EmergencyContact, error) {
	all, err := s.repo.ListContacts(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return all, nil
	}
	q := strings.ToLower(query)
	out := make([]EmergencyContact, 0, len(all))
	for _, c := range all {
		if matches(c, q) {
			out = append(out, c)
		}
	}
	return out, nil
}

func matches(c EmergencyContact, q string) bool {
	return strings.Contains(strings.ToLower(c.Name), q) ||
		(c.Organization != nil && strings.Contains(strings.ToLower(*c.Organization), q)) ||
		strings.Contains(strings.ToLower(c.Description), q) ||
		strings.Contains(string(c.Category), q)
}

// Grouped returns Search results bucketed by category in display order.
// Empty categories are omitted.
func (s *Service) Grouped(ctx context.Context, query string) ([]Group, error) {
	found, err := s.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	byCat := make(map[Category][]EmergencyContact)
	for _, c := range found {
		byCat[c.Category] = append(byCat[c.Category], c)
	}
	groups := []Group{}
	for _, cat := range categoryOrder {
		if len(byCat[cat]) > 0 {
			groups = append(groups, Group{Category: cat, Contacts: byCat[cat]})
		}
	}
	return groups, nil
}

func (s *Service) SafetyTips(ctx context.Context) ([]SafetyTip, error) {
	return s.repo.ListSafetyTips(ctx)
}
