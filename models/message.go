package models

import "time"

// Message is a contact form submission
type Message struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Message         string    `json:"message"`
	ProjectInterest *string   `json:"projectInterest"`
	CreatedAt       time.Time `json:"createdAt"`
	Read            bool      `json:"read"`
}

// NewMessage is the insert payload for a contact message. New messages are
// always unread.
type NewMessage struct {
	Name            string  `json:"name" validate:"required,min=2"`
	Email           string  `json:"email" validate:"required,email"`
	Message         string  `json:"message" validate:"required,min=10"`
	ProjectInterest *string `json:"projectInterest"`
}

// Build returns the full message for payload n with the given identity.
func (n NewMessage) Build(id int64, createdAt time.Time) Message {
	return Message{
		ID:              id,
		Name:            n.Name,
		Email:           n.Email,
		Message:         n.Message,
		ProjectInterest: cloneString(n.ProjectInterest),
		CreatedAt:       createdAt,
	}
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	out := m
	out.ProjectInterest = cloneString(m.ProjectInterest)
	return out
}
