package req

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"groupchat/internal/pkg/errs"
)

type payload struct {
	Content string `json:"content"`
}

func jsonRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/messages/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestBindJSONDecodesValidBody(t *testing.T) {
	var dst payload
	if customErr := BindJSON(jsonRequest(`{"content":"hi"}`), &dst); customErr != nil {
		t.Fatalf("BindJSON failed: %v", customErr)
	}
	if dst.Content != "hi" {
		t.Errorf("Content = %q, want hi", dst.Content)
	}
}

func TestBindJSONRejectsWrongContentType(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/messages/", strings.NewReader(`{"content":"hi"}`))
	r.Header.Set("Content-Type", "text/plain")

	var dst payload
	customErr := BindJSON(r, &dst)
	if customErr == nil || customErr.Code != errs.ErrUnsupportedMediaType {
		t.Fatalf("BindJSON error = %v, want ErrUnsupportedMediaType", customErr)
	}
}

func TestBindJSONRejectsMalformedAndUnknownFields(t *testing.T) {
	for _, body := range []string{
		`{"content":`,
		`{"content":"hi","extra":true}`,
		``,
	} {
		var dst payload
		customErr := BindJSON(jsonRequest(body), &dst)
		if customErr == nil || customErr.Code != errs.ErrInvalidJSONFormat {
			t.Errorf("BindJSON(%q) error = %v, want ErrInvalidJSONFormat", body, customErr)
		}
	}
}

func TestBindJSONRejectsTrailingContent(t *testing.T) {
	var dst payload
	customErr := BindJSON(jsonRequest(`{"content":"hi"}{"content":"again"}`), &dst)
	if customErr == nil || customErr.Code != errs.ErrExtraContentInBody {
		t.Fatalf("BindJSON error = %v, want ErrExtraContentInBody", customErr)
	}
}
