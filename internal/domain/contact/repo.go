package contact

import (
	"context"
	"fmt"
)

// Repository serves the read-only contact directory and safety tips.
type Repository interface {
	ListContacts(ctx context.Context) ([]EmergencyContact, error)
	ListSafetyTips(ctx context.Context) ([]SafetyTip, error)
}

type memoryRepo struct {
	contacts []EmergencyContact
	tips     []SafetyTip
}

// NewMemoryRepo keeps contacts and tips in the order given.
func NewMemoryRepo(contacts []EmergencyContact, tips []SafetyTip) (Repository, error) {
	seen := make(map[string]bool, len(contacts))
	for _, c := range contacts {
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate contact id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return &memoryRepo{
		contacts: append([]EmergencyContact(nil), contacts...),
		tips:     append([]SafetyTip(nil), tips...),
	}, nil
}

func (r *memoryRepo) ListContacts(_ context.Context) ([]EmergencyContact, error) {
	return append([]EmergencyContact{}, r.contacts...), nil
}

func (r *memoryRepo) ListSafetyTips(_ context.Context) ([]SafetyTip, error) {
	return append([]SafetyTip{}, r.tips...), nil
}
