package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MessageSenderUser  = "user"
	MessageSenderAdmin = "admin"
)

// Message is one entry in a user's support thread. A thread is simply all
// messages sharing a user_id, ordered by creation time.
type Message struct {
	ID         int64     `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	SenderRole string    `db:"sender_role" json:"sender_role"`
	Body       string    `db:"body" json:"body"`
	Read       bool      `db:"read" json:"read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type MessageThread struct {
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	UserEmail   string    `db:"user_email" json:"user_email"`
	LastMessage time.Time `db:"last_message" json:"last_message"`
	Unread      int       `db:"unread" json:"unread"`
}
