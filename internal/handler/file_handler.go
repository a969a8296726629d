package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"groupchat/internal/app/storage"
	"groupchat/internal/app/store"
	"groupchat/internal/pkg/errs"
	"groupchat/internal/pkg/logx"
	"groupchat/internal/pkg/req"
	"groupchat/internal/pkg/resp"
)

// MaxAttachmentSize caps a single uploaded file.
const MaxAttachmentSize = 20 << 20 // 20 MB

// HandleUpload stores each uploaded file in the content store and submits
// one message per file through the ingress pipeline. An optional "content"
// form field captions the messages; without it the caption defaults to
// "Sent a <kind>".
func HandleUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := requireIdentity(w, r)
		if !ok {
			return
		}

		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		files := r.MultipartForm.File["files"]
		if len(files) == 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrNoFilesUploaded))
			return
		}

		caption := r.FormValue("content")
		room := deps.Registry.RoomOf(username)

		var messageIDs []int64
		for _, header := range files {
			if header.Size > MaxAttachmentSize {
				resp.RespondError(w, r, errs.NewError(errs.ErrFileSizeTooLarge))
				return
			}

			attachment, customErr := saveUploadedFile(r, deps.Files, header)
			if customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}

			content := caption
			if content == "" {
				content = fmt.Sprintf("Sent a %s", attachment.Kind)
			}

			msg, customErr := deps.Ingress.Submit(r.Context(), username, room, content, attachment)
			if customErr != nil {
				// The bytes are already stored; release them so a failed
				// submit does not leak objects.
				if err := deps.Files.Delete(r.Context(), attachment.URL); err != nil {
					logx.Warn("Failed to release attachment after rejected submit", "url", attachment.URL)
				}
				resp.RespondError(w, r, customErr)
				return
			}

			messageIDs = append(messageIDs, msg.ID)
		}

		resp.RespondSuccess(w, r, map[string]any{
			"message_ids": messageIDs,
		})
	}
}

// saveUploadedFile streams one multipart file into the content store.
func saveUploadedFile(r *http.Request, files storage.ContentStore, header *multipart.FileHeader) (*store.Attachment, *errs.CustomError) {
	file, err := header.Open()
	if err != nil {
		return nil, errs.NewError(errs.ErrFormParseFailed)
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	saved, err := files.Save(r.Context(), file, header.Filename, mimeType, header.Size)
	if err != nil {
		logx.Error(err, "Content store save failed", "file_name", header.Filename)
		return nil, errs.NewError(errs.ErrFileStorageFailed)
	}

	return &store.Attachment{
		URL:  saved.URL,
		Name: saved.Name,
		Size: saved.Size,
		Kind: saved.Kind,
	}, nil
}
