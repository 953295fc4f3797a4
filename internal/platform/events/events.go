package events

import (
	"context"
	"time"
)

// Event topics
const (
	TopicNoteCreated       = "casework.note.created"
	TopicNoteUpdated       = "casework.note.updated"
	TopicNoteDeleted       = "casework.note.deleted"
	TopicReminderCompleted = "casework.reminder.completed"
	TopicFavoriteToggled   = "casework.favorite.toggled"
)

// NoteChanged carries identifiers only; note text never leaves the store.
type NoteChanged struct {
	NoteID    string    `json:"note_id"`
	ClientID  string    `json:"client_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ReminderCompleted struct {
	ReminderID string    `json:"reminder_id"`
	UserID     string    `json:"user_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type FavoriteToggled struct {
	ResourceID string    `json:"resource_id"`
	UserID     string    `json:"user_id"`
	Favorite   bool      `json:"favorite"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher publishes domain events to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
