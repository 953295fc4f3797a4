package note

import "time"

// Note is a case note. Content fields hold plaintext in the service layer
// and ciphertext in the repository when encryption is enabled.
type Note struct {
	ID           string    `json:"id"`
	ClientID     *string   `json:"client_id,omitempty"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Purpose      string    `json:"purpose"`
	Intervention string    `json:"intervention"`
	FollowUp     string    `json:"follow_up"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Encrypted    bool      `json:"encrypted"`
}

// Update replaces the editable body of a note. The title is fixed at creation.
type Update struct {
	Content      string `json:"content"`
	Purpose      string `json:"purpose"`
	Intervention string `json:"intervention"`
	FollowUp     string `json:"follow_up"`
}

// ListFilter narrows List. An empty ClientID lists every note.
type ListFilter struct {
	ClientID string
}

func (n *Note) sealedFields() []*string {
	return []*string{&n.Content, &n.Purpose, &n.Intervention, &n.FollowUp}
}
