package store

import (
	"context"
	"time"
)

// DefaultRoom is the room a message or session belongs to when none is given.
const DefaultRoom = "general"

// User is a persisted account row. Immutable after creation except IsActive.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// Attachment describes the stored file carried by a message.
type Attachment struct {
	URL  string
	Name string
	Size int64
	Kind string
}

// Message is a persisted chat message row. IDs are assigned by a monotonic
// sequence; (CreatedAt, ID) is the authoritative history order.
type Message struct {
	ID         int64
	UserID     int64
	Username   string
	Content    string
	Room       string
	CreatedAt  time.Time
	Attachment *Attachment
}

// CreateMessageParams is the input for persisting a new message.
type CreateMessageParams struct {
	UserID     int64
	Content    string
	Room       string
	Attachment *Attachment
}

// UserStore is the account persistence surface the service depends on.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
}

// MessageStore is the message persistence surface the ingress pipeline
// depends on.
type MessageStore interface {
	CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error)
	GetMessageByID(ctx context.Context, id int64) (Message, error)
	ListRecentMessages(ctx context.Context, room string, limit int32) ([]Message, error)
	UpdateMessageContent(ctx context.Context, id int64, content string) (Message, error)
	DeleteMessage(ctx context.Context, id int64) error
	ListMessagesByAuthor(ctx context.Context, userID int64) ([]Message, error)
	DeleteMessagesByAuthor(ctx context.Context, userID int64) (int64, error)
}
