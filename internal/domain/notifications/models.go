package notifications

import "time"

// Record is the insert payload for one recipient's in-app notification.
type Record struct {
	UserID   string
	Type     string
	Category string
	Priority string
	Title    string
	Message  string
	Link     string
}

type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Type      string     `json:"type"`
	Category  string     `json:"category"`
	Priority  string     `json:"priority"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Link      string     `json:"link,omitempty"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Email is one outbound message, possibly addressed to several recipients.
type Email struct {
	To      []string
	Subject string
	Title   string
	Message string
	CTAPath string
}
