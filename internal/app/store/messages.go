package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// messageColumns joins messages with their author so every row carries the
// username needed by the wire payload.
const messageColumns = `
m.id, m.user_id, u.username, m.content, m.room, m.created_at,
m.file_url, m.file_name, m.file_size, m.file_kind
`

func scanMessage(row pgx.Row) (Message, error) {
	var (
		m        Message
		fileURL  *string
		fileName *string
		fileSize *int64
		fileKind *string
	)

	err := row.Scan(
		&m.ID, &m.UserID, &m.Username, &m.Content, &m.Room, &m.CreatedAt,
		&fileURL, &fileName, &fileSize, &fileKind,
	)
	if err != nil {
		return Message{}, err
	}

	if fileURL != nil {
		att := Attachment{URL: *fileURL}
		if fileName != nil {
			att.Name = *fileName
		}
		if fileSize != nil {
			att.Size = *fileSize
		}
		if fileKind != nil {
			att.Kind = *fileKind
		}
		m.Attachment = &att
	}

	return m, nil
}

const createMessageSQL = `
WITH inserted AS (
    INSERT INTO messages (user_id, content, room, file_url, file_name, file_size, file_kind)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING id, user_id, content, room, created_at, file_url, file_name, file_size, file_kind
)
SELECT m.id, m.user_id, u.username, m.content, m.room, m.created_at,
       m.file_url, m.file_name, m.file_size, m.file_kind
FROM inserted m
JOIN users u ON u.id = m.user_id
`

// CreateMessage persists a new message. The id and created_at are assigned
// by the database; the id sequence is the monotonic history order.
func (q *Queries) CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error) {
	room := params.Room
	if room == "" {
		room = DefaultRoom
	}

	var fileURL, fileName, fileKind *string
	var fileSize *int64
	if att := params.Attachment; att != nil {
		fileURL = &att.URL
		fileName = &att.Name
		fileSize = &att.Size
		fileKind = &att.Kind
	}

	row := q.pool.QueryRow(ctx, createMessageSQL,
		params.UserID, params.Content, room, fileURL, fileName, fileSize, fileKind,
	)
	return scanMessage(row)
}

const getMessageByIDSQL = `
SELECT ` + messageColumns + `
FROM messages m
JOIN users u ON u.id = m.user_id
WHERE m.id = $1
`

// GetMessageByID fetches one message. Returns ErrNotFound for unknown ids.
func (q *Queries) GetMessageByID(ctx context.Context, id int64) (Message, error) {
	m, err := scanMessage(q.pool.QueryRow(ctx, getMessageByIDSQL, id))
	if err != nil {
		return Message{}, notFoundOr(err)
	}
	return m, nil
}

const listRecentMessagesSQL = `
SELECT ` + messageColumns + `
FROM messages m
JOIN users u ON u.id = m.user_id
WHERE m.room = $1
ORDER BY m.created_at DESC, m.id DESC
LIMIT $2
`

// ListRecentMessages returns the newest limit messages in a room in
// chronological order: the query walks history newest-first, then the slice
// is reversed for replay.
func (q *Queries) ListRecentMessages(ctx context.Context, room string, limit int32) ([]Message, error) {
	if room == "" {
		room = DefaultRoom
	}

	rows, err := q.pool.Query(ctx, listRecentMessagesSQL, room, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

const updateMessageContentSQL = `
WITH updated AS (
    UPDATE messages
    SET content = $2
    WHERE id = $1
    RETURNING id, user_id, content, room, created_at, file_url, file_name, file_size, file_kind
)
SELECT m.id, m.user_id, u.username, m.content, m.room, m.created_at,
       m.file_url, m.file_name, m.file_size, m.file_kind
FROM updated m
JOIN users u ON u.id = m.user_id
`

// UpdateMessageContent replaces the body of a message and returns the
// updated row. Returns ErrNotFound for unknown ids.
func (q *Queries) UpdateMessageContent(ctx context.Context, id int64, content string) (Message, error) {
	m, err := scanMessage(q.pool.QueryRow(ctx, updateMessageContentSQL, id, content))
	if err != nil {
		return Message{}, notFoundOr(err)
	}
	return m, nil
}

const deleteMessageSQL = `DELETE FROM messages WHERE id = $1`

// DeleteMessage removes one message row. Returns ErrNotFound when the id is
// unknown.
func (q *Queries) DeleteMessage(ctx context.Context, id int64) error {
	tag, err := q.pool.Exec(ctx, deleteMessageSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const listMessagesByAuthorSQL = `
SELECT ` + messageColumns + `
FROM messages m
JOIN users u ON u.id = m.user_id
WHERE m.user_id = $1
ORDER BY m.id
`

// ListMessagesByAuthor returns every message the user authored, oldest first.
func (q *Queries) ListMessagesByAuthor(ctx context.Context, userID int64) ([]Message, error) {
	rows, err := q.pool.Query(ctx, listMessagesByAuthorSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

const deleteMessagesByAuthorSQL = `DELETE FROM messages WHERE user_id = $1`

// DeleteMessagesByAuthor removes every message the user authored and returns
// the number of deleted rows.
func (q *Queries) DeleteMessagesByAuthor(ctx context.Context, userID int64) (int64, error) {
	tag, err := q.pool.Exec(ctx, deleteMessagesByAuthorSQL, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
