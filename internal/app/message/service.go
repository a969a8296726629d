/*
Package message implements the ingress pipeline: every new, edited or deleted
message passes through validate → persist → broadcast, whether it arrived
over HTTP or the live channel.
*/
package message

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"groupchat/internal/app/chat"
	"groupchat/internal/app/storage"
	"groupchat/internal/app/store"
	"groupchat/internal/pkg/errs"
	"groupchat/internal/pkg/logx"
)

const (
	// MaxContentBytes caps message content size.
	MaxContentBytes = 5000

	// DefaultHistoryLimit is how many messages history replay returns.
	DefaultHistoryLimit = 50
)

// Service is the message ingress pipeline.
type Service struct {
	users    store.UserStore
	messages store.MessageStore
	files    storage.ContentStore
	registry *chat.Registry
	logger   zerolog.Logger
}

// NewService wires the pipeline to its collaborators.
func NewService(users store.UserStore, messages store.MessageStore, files storage.ContentStore, registry *chat.Registry) *Service {
	return &Service{
		users:    users,
		messages: messages,
		files:    files,
		registry: registry,
		logger:   logx.Logger().With().Str("component", "ingress").Logger(),
	}
}

// resolveAuthor maps a username to an existing active account. Failures are
// authentication errors: the caller has no verified identity.
func (s *Service) resolveAuthor(ctx context.Context, username string) (store.User, *errs.CustomError) {
	if username == "" {
		return store.User{}, errs.NewError(errs.ErrUnauthorized)
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, errs.NewError(errs.ErrUserNotFound)
		}
		s.logger.Error().Err(err).Str("username", username).Msg("Author lookup failed")
		return store.User{}, errs.NewError(errs.ErrStoreFailure)
	}

	if !user.IsActive {
		return store.User{}, errs.NewError(errs.ErrUserNotFound)
	}

	return user, nil
}

// Submit validates and persists a new message, then fans it out to the room.
// A failed broadcast never undoes a successful persist; the registry swallows
// delivery errors.
func (s *Service) Submit(ctx context.Context, username, room, content string, attachment *store.Attachment) (store.Message, *errs.CustomError) {
	author, customErr := s.resolveAuthor(ctx, username)
	if customErr != nil {
		return store.Message{}, customErr
	}

	content = strings.TrimSpace(content)
	if content == "" && attachment == nil {
		return store.Message{}, errs.NewError(errs.ErrEmptyMessage)
	}
	if len(content) > MaxContentBytes {
		return store.Message{}, errs.NewError(errs.ErrMessageContentTooLong)
	}

	msg, err := s.messages.CreateMessage(ctx, store.CreateMessageParams{
		UserID:     author.ID,
		Content:    content,
		Room:       room,
		Attachment: attachment,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("Failed to persist message")
		return store.Message{}, errs.NewError(errs.ErrStoreFailure)
	}

	s.registry.Broadcast(chat.NewMessageEvent(chat.EventNewMessage, msg), msg.Room)

	return msg, nil
}

// Edit replaces the content of a message owned by the requester and
// broadcasts the update. Non-owners get an authorization error, which is
// deliberately distinct from not-found.
func (s *Service) Edit(ctx context.Context, messageID int64, username, newContent string) (store.Message, *errs.CustomError) {
	author, customErr := s.resolveAuthor(ctx, username)
	if customErr != nil {
		return store.Message{}, customErr
	}

	msg, err := s.messages.GetMessageByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Message{}, errs.NewError(errs.ErrMessageNotFound)
		}
		return store.Message{}, errs.NewError(errs.ErrStoreFailure)
	}

	if msg.UserID != author.ID {
		return store.Message{}, errs.NewError(errs.ErrNotMessageOwner)
	}

	newContent = strings.TrimSpace(newContent)
	if newContent == "" && msg.Attachment == nil {
		return store.Message{}, errs.NewError(errs.ErrEmptyMessage)
	}
	if len(newContent) > MaxContentBytes {
		return store.Message{}, errs.NewError(errs.ErrMessageContentTooLong)
	}

	updated, err := s.messages.UpdateMessageContent(ctx, messageID, newContent)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Message{}, errs.NewError(errs.ErrMessageNotFound)
		}
		return store.Message{}, errs.NewError(errs.ErrStoreFailure)
	}

	s.registry.Broadcast(chat.NewMessageEvent(chat.EventMessageUpdated, updated), updated.Room)

	return updated, nil
}

// Delete removes a message owned by the requester, releases its attachment
// bytes, and broadcasts the deletion.
func (s *Service) Delete(ctx context.Context, messageID int64, username string) *errs.CustomError {
	author, customErr := s.resolveAuthor(ctx, username)
	if customErr != nil {
		return customErr
	}

	msg, err := s.messages.GetMessageByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errs.NewError(errs.ErrMessageNotFound)
		}
		return errs.NewError(errs.ErrStoreFailure)
	}

	if msg.UserID != author.ID {
		return errs.NewError(errs.ErrNotMessageOwner)
	}

	// Release the stored bytes before dropping the row; a storage failure
	// leaves the message intact so the delete can be retried.
	if msg.Attachment != nil {
		if err := s.files.Delete(ctx, msg.Attachment.URL); err != nil {
			s.logger.Error().Err(err).Int64("message_id", messageID).Msg("Failed to release attachment")
			return errs.NewError(errs.ErrFileStorageFailed)
		}
	}

	if err := s.messages.DeleteMessage(ctx, messageID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errs.NewError(errs.ErrMessageNotFound)
		}
		return errs.NewError(errs.ErrStoreFailure)
	}

	s.registry.Broadcast(chat.NewMessageDeletedEvent(messageID), msg.Room)

	return nil
}

// ClearOwn deletes every message the requester authored, releasing each
// attachment first, and returns the number of deleted rows.
//
// No deletion events are broadcast: other clients keep the cleared rows until
// their next history refresh.
func (s *Service) ClearOwn(ctx context.Context, username string) (int64, *errs.CustomError) {
	author, customErr := s.resolveAuthor(ctx, username)
	if customErr != nil {
		return 0, customErr
	}

	owned, err := s.messages.ListMessagesByAuthor(ctx, author.ID)
	if err != nil {
		return 0, errs.NewError(errs.ErrStoreFailure)
	}

	for _, msg := range owned {
		if msg.Attachment == nil {
			continue
		}
		if err := s.files.Delete(ctx, msg.Attachment.URL); err != nil {
			// Bulk clear is best-effort on storage: keep going so one orphaned
			// object cannot block the whole cleanup.
			s.logger.Warn().Err(err).Int64("message_id", msg.ID).Msg("Failed to release attachment during clear")
		}
	}

	count, err := s.messages.DeleteMessagesByAuthor(ctx, author.ID)
	if err != nil {
		return 0, errs.NewError(errs.ErrStoreFailure)
	}

	return count, nil
}

// Recent returns the newest messages in a room in chronological order, as
// wire payloads identical to live new_message frames.
func (s *Service) Recent(ctx context.Context, room string, limit int32) ([]chat.MessagePayload, *errs.CustomError) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	messages, err := s.messages.ListRecentMessages(ctx, room, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("room", room).Msg("Failed to list recent messages")
		return nil, errs.NewError(errs.ErrStoreFailure)
	}

	payloads := make([]chat.MessagePayload, 0, len(messages))
	for _, m := range messages {
		payloads = append(payloads, chat.NewMessagePayload(m))
	}

	return payloads, nil
}
