/*
Package chat contains the live messaging core: the presence and broadcast
registry, the wire events pushed to connected clients, and the WebSocket
client implementing the live channel protocol.
*/
package chat

import (
	"time"

	"groupchat/internal/app/store"
)

// Outbound frame types pushed to live connections.
const (
	EventUserJoined     = "user_joined"
	EventUserLeft       = "user_left"
	EventNewMessage     = "new_message"
	EventMessageUpdated = "message_updated"
	EventMessageDeleted = "message_deleted"
)

// Inbound frame types accepted from live connections.
const (
	inboundTypeMessage        = "message"
	inboundTypeMessageUpdated = "message_updated"
)

// MessagePayload is the wire form of a persisted message, shared by the live
// channel and the history replay endpoint. Attachment fields serialize as
// null when the message has none.
type MessagePayload struct {
	ID        int64   `json:"id"`
	Content   string  `json:"content"`
	Username  string  `json:"username"`
	UserID    int64   `json:"user_id"`
	CreatedAt string  `json:"created_at"`
	Room      string  `json:"room"`
	FileURL   *string `json:"file_url"`
	FileName  *string `json:"file_name"`
	FileSize  *int64  `json:"file_size"`
	FileKind  *string `json:"file_type"`
}

// NewMessagePayload converts a persisted message row to its wire form.
func NewMessagePayload(m store.Message) MessagePayload {
	payload := MessagePayload{
		ID:        m.ID,
		Content:   m.Content,
		Username:  m.Username,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
		Room:      m.Room,
	}

	if att := m.Attachment; att != nil {
		payload.FileURL = &att.URL
		payload.FileName = &att.Name
		payload.FileSize = &att.Size
		payload.FileKind = &att.Kind
	}

	return payload
}

// PresenceEvent announces a join or leave, carrying the recomputed online
// list for the room.
type PresenceEvent struct {
	Type        string   `json:"type"`
	Username    string   `json:"username"`
	Message     string   `json:"message"`
	Timestamp   string   `json:"timestamp"`
	OnlineUsers []string `json:"online_users"`
}

// MessageEvent wraps a message payload for new_message and message_updated
// frames.
type MessageEvent struct {
	Type    string         `json:"type"`
	Message MessagePayload `json:"message"`
}

// NewMessageEvent builds a MessageEvent of the given type from a persisted
// message.
func NewMessageEvent(eventType string, m store.Message) MessageEvent {
	return MessageEvent{Type: eventType, Message: NewMessagePayload(m)}
}

// MessageDeletedEvent tells clients to drop a message from their view.
type MessageDeletedEvent struct {
	Type      string `json:"type"`
	MessageID int64  `json:"message_id"`
}

// NewMessageDeletedEvent builds the deletion frame for a message id.
func NewMessageDeletedEvent(messageID int64) MessageDeletedEvent {
	return MessageDeletedEvent{Type: EventMessageDeleted, MessageID: messageID}
}
