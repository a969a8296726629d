/*
Package req provides helpers for binding HTTP request bodies.

It enforces content-type, strictness (unknown fields rejected, no trailing
data) and size limits, returning taxonomy errors ready for the response layer.
*/
package req

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"groupchat/internal/pkg/errs"
)

const (
	// MaxFormMemory is how much of a multipart form is buffered in memory;
	// larger file parts spill to temporary files.
	MaxFormMemory int64 = 32 << 20 // 32 MB

	// MaxUploadRequestSize caps the entire upload request body, files included.
	MaxUploadRequestSize int64 = 20 << 20 // 20 MB
)

// BindJSON decodes the request body into dst. Unknown fields and trailing
// content are rejected.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// SetupMultipart caps the request body at MaxUploadRequestSize and parses the
// multipart form.
func SetupMultipart(w http.ResponseWriter, r *http.Request) *errs.CustomError {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadRequestSize)

	if err := r.ParseMultipartForm(MaxFormMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}

		return errs.NewError(errs.ErrFormParseFailed)
	}

	return nil
}
