package client

import "time"

type Client struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	Tags        []string  `json:"tags"`
	LastContact time.Time `json:"last_contact"`
}

// Stats summarizes a client's case activity.
type Stats struct {
	Notes            int `json:"notes"`
	OpenReminders    int `json:"open_reminders"`
	OverdueReminders int `json:"overdue_reminders"`
}
