package chat

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"groupchat/internal/app/store"
	"groupchat/internal/pkg/logx"
)

// Conn is the transport side of a live session. The WebSocket client
// implements it by queueing frames for its write loop; a failed Send means
// the connection is gone and the session gets pruned.
type Conn interface {
	Send(data []byte) error
}

// Session is a connected user's live-channel membership record. It is held
// only by the Registry and never persisted; a restart rebuilds presence from
// scratch as clients reconnect.
type Session struct {
	conn Conn

	// Username identifies the account; at most one live session per username.
	Username string

	// Room is fixed for the lifetime of the session.
	Room string
}

// Registry tracks which users are connected to which rooms and fans events
// out to them. All state lives behind one mutex: joins, leaves, broadcasts
// and presence reads are mutually exclusive, so a leave broadcast can never
// interleave with a concurrent join inconsistently.
type Registry struct {
	mu sync.Mutex

	// rooms keeps each room's sessions in insertion order, which is the
	// order presence lists are displayed in.
	rooms map[string][]*Session

	// byUser maps a username to its single live session.
	byUser map[string]*Session

	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string][]*Session),
		byUser: make(map[string]*Session),
		logger: logx.Logger().With().Str("component", "registry").Logger(),
	}
}

// Join registers a connection under username in room (default room when
// empty) and announces the join to everyone now in the room, the joiner
// included. A second connect for the same username replaces the previous
// registry entry; the old physical connection is not closed here, it simply
// stops receiving room traffic.
func (r *Registry) Join(conn Conn, username, room string) *Session {
	if room == "" {
		room = store.DefaultRoom
	}

	session := &Session{conn: conn, Username: username, Room: room}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byUser[username]; ok {
		r.logger.Warn().Str("username", username).Str("room", old.Room).
			Msg("Username already connected, replacing previous session")
		r.removeFromRoomLocked(old)
	}

	r.byUser[username] = session
	r.rooms[room] = append(r.rooms[room], session)

	r.logger.Info().Str("username", username).Str("room", room).
		Int("room_size", len(r.rooms[room])).Msg("Session joined")

	r.broadcastLocked(PresenceEvent{
		Type:        EventUserJoined,
		Username:    username,
		Message:     fmt.Sprintf("%s joined the chat", username),
		Timestamp:   time.Now().Format(time.RFC3339),
		OnlineUsers: r.onlineUsersLocked(room),
	}, room)

	return session
}

// Leave removes the session and announces the departure to the remaining
// room members. Stale sessions (already replaced by a newer connect) and
// sessions that were never registered are ignored.
func (r *Registry) Leave(session *Session) {
	if session == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.byUser[session.Username]; !ok || current != session {
		return
	}

	delete(r.byUser, session.Username)
	r.removeFromRoomLocked(session)

	r.logger.Info().Str("username", session.Username).Str("room", session.Room).
		Int("room_size", len(r.rooms[session.Room])).Msg("Session left")

	r.broadcastLocked(PresenceEvent{
		Type:        EventUserLeft,
		Username:    session.Username,
		Message:     fmt.Sprintf("%s left the chat", session.Username),
		Timestamp:   time.Now().Format(time.RFC3339),
		OnlineUsers: r.onlineUsersLocked(session.Room),
	}, session.Room)
}

// Broadcast serializes event once and delivers it to every live session in
// room. Delivery is best-effort: a failed send prunes the dead session and
// delivery continues; the caller never sees an error.
func (r *Registry) Broadcast(event any, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.broadcastLocked(event, room)
}

// OnlineUsers returns the usernames currently in room, in join order.
func (r *Registry) OnlineUsers(room string) []string {
	if room == "" {
		room = store.DefaultRoom
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.onlineUsersLocked(room)
}

// RoomOf returns the room username is connected to, or the default room when
// the user has no live session.
func (r *Registry) RoomOf(username string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.byUser[username]; ok {
		return session.Room
	}
	return store.DefaultRoom
}

func (r *Registry) broadcastLocked(event any, room string) {
	sessions := r.rooms[room]
	if len(sessions) == 0 {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		r.logger.Error().Err(err).Str("room", room).Msg("Failed to marshal broadcast event")
		return
	}

	// Iterate over a snapshot so dead sessions can be pruned mid-loop.
	snapshot := make([]*Session, len(sessions))
	copy(snapshot, sessions)

	for _, session := range snapshot {
		if err := session.conn.Send(data); err != nil {
			r.logger.Warn().Err(err).Str("username", session.Username).Str("room", room).
				Msg("Send failed, pruning dead session")
			r.pruneLocked(session)
		}
	}
}

// pruneLocked drops a session whose connection turned out to be dead.
// No user_left is emitted here; the connection's own read loop issues the
// real leave when it unwinds.
func (r *Registry) pruneLocked(session *Session) {
	if current, ok := r.byUser[session.Username]; ok && current == session {
		delete(r.byUser, session.Username)
	}
	r.removeFromRoomLocked(session)
}

func (r *Registry) removeFromRoomLocked(session *Session) {
	sessions := r.rooms[session.Room]
	for i, s := range sessions {
		if s == session {
			r.rooms[session.Room] = append(sessions[:i], sessions[i+1:]...)
			break
		}
	}
	if len(r.rooms[session.Room]) == 0 {
		delete(r.rooms, session.Room)
	}
}

func (r *Registry) onlineUsersLocked(room string) []string {
	sessions := r.rooms[room]
	usernames := make([]string, 0, len(sessions))
	for _, s := range sessions {
		usernames = append(usernames, s.Username)
	}
	return usernames
}
