package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"groupchat/internal/pkg/auth/jwt"
	"groupchat/internal/pkg/errs"
	"groupchat/internal/pkg/req"
	"groupchat/internal/pkg/resp"
)

// requireIdentity returns the authenticated username or writes a 401.
func requireIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims := jwt.GetClaimsFromContext(r)
	if claims == nil {
		resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
		return "", false
	}
	return claims.Username, true
}

// messageIDParam parses the {id} route parameter.
func messageIDParam(r *http.Request) (int64, *errs.CustomError) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewError(errs.ErrInvalidParams)
	}
	return id, nil
}

// HandleListMessages replays recent history for the caller's current room,
// oldest first, in the same payload shape as live new_message frames.
func HandleListMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := requireIdentity(w, r)
		if !ok {
			return
		}

		room := deps.Registry.RoomOf(username)

		messages, customErr := deps.Ingress.Recent(r.Context(), room, 0)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"room":     room,
			"messages": messages,
		})
	}
}

type CreateMessageInput struct {
	Content string `json:"content"`
}

// HandleCreateMessage submits a text message through the ingress pipeline
// into the caller's current room.
func HandleCreateMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := requireIdentity(w, r)
		if !ok {
			return
		}

		var input CreateMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		room := deps.Registry.RoomOf(username)

		msg, customErr := deps.Ingress.Submit(r.Context(), username, room, input.Content, nil)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"message_id": msg.ID,
		})
	}
}

type EditMessageInput struct {
	Content string `json:"content"`
}

// HandleEditMessage rewrites a message's content; only the author may edit.
func HandleEditMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := requireIdentity(w, r)
		if !ok {
			return
		}

		id, customErr := messageIDParam(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input EditMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		msg, customErr := deps.Ingress.Edit(r.Context(), id, username, input.Content)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"message_id": msg.ID,
			"content":    msg.Content,
		})
	}
}

// HandleDeleteMessage removes a message; only the author may delete.
func HandleDeleteMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := requireIdentity(w, r)
		if !ok {
			return
		}

		id, customErr := messageIDParam(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := deps.Ingress.Delete(r.Context(), id, username); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"deleted_id": id,
		})
	}
}

// HandleClearOwnMessages deletes every message the caller authored.
func HandleClearOwnMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := requireIdentity(w, r)
		if !ok {
			return
		}

		count, customErr := deps.Ingress.ClearOwn(r.Context(), username)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"deleted_count": count,
		})
	}
}

// HandleOnlineUsers reports presence for the caller's current room.
func HandleOnlineUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := requireIdentity(w, r)
		if !ok {
			return
		}

		room := deps.Registry.RoomOf(username)

		resp.RespondSuccess(w, r, map[string]any{
			"room":         room,
			"online_users": deps.Registry.OnlineUsers(room),
		})
	}
}
