package handler

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"

	"groupchat/internal/pkg/errs"
)

func TestMessageEndpointsRequireIdentity(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/messages/", ""},
		{http.MethodPost, "/api/messages/", `{"content":"hi"}`},
		{http.MethodPut, "/api/messages/1", `{"content":"hi"}`},
		{http.MethodDelete, "/api/messages/1", ""},
		{http.MethodDelete, "/api/messages/", ""},
		{http.MethodGet, "/api/online-users", ""},
	}

	for _, p := range paths {
		status, envelope := env.doJSON(t, p.method, p.path, "", p.body)
		if status != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", p.method, p.path, status)
		}
		if envelope.Code != errs.ErrUnauthorized {
			t.Errorf("%s %s envelope code = %d, want %d", p.method, p.path, envelope.Code, errs.ErrUnauthorized)
		}
	}
}

func TestCreateAndListMessages(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "alex", "secret12")

	for i := 1; i <= 3; i++ {
		status, envelope := env.doJSON(t, http.MethodPost, "/api/messages/", token,
			fmt.Sprintf(`{"content":"msg %d"}`, i))
		if status != http.StatusOK {
			t.Fatalf("create %d status = %d (message: %s)", i, status, envelope.Message)
		}
	}

	status, envelope := env.doJSON(t, http.MethodGet, "/api/messages/", token, "")
	if status != http.StatusOK {
		t.Fatalf("list status = %d, want 200", status)
	}

	data := dataMap(t, envelope)
	messages, ok := data["messages"].([]any)
	if !ok {
		t.Fatalf("messages field = %T, want array", data["messages"])
	}
	if len(messages) != 3 {
		t.Fatalf("listed %d messages, want 3", len(messages))
	}

	first := messages[0].(map[string]any)
	if first["content"] != "msg 1" {
		t.Errorf("first message content = %v, want oldest first", first["content"])
	}
	if first["username"] != "alex" {
		t.Errorf("first message username = %v, want alex", first["username"])
	}
}

func TestCreateMessageRejectsEmptyContent(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "alex", "secret12")

	status, envelope := env.doJSON(t, http.MethodPost, "/api/messages/", token, `{"content":"   "}`)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if envelope.Code != errs.ErrEmptyMessage {
		t.Fatalf("envelope code = %d, want %d", envelope.Code, errs.ErrEmptyMessage)
	}
}

func TestEditMessageOwnershipOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	alexToken := env.seedUser(t, "alex", "secret12")
	mariaToken := env.seedUser(t, "maria", "secret12")

	status, envelope := env.doJSON(t, http.MethodPost, "/api/messages/", alexToken, `{"content":"original"}`)
	if status != http.StatusOK {
		t.Fatal("create failed")
	}
	id := int64(dataMap(t, envelope)["message_id"].(float64))

	status, envelope = env.doJSON(t, http.MethodPut, fmt.Sprintf("/api/messages/%d", id), mariaToken,
		`{"content":"tampered"}`)
	if status != http.StatusForbidden {
		t.Errorf("non-author edit status = %d, want 403", status)
	}
	if envelope.Code != errs.ErrNotMessageOwner {
		t.Errorf("non-author edit code = %d, want %d", envelope.Code, errs.ErrNotMessageOwner)
	}

	status, envelope = env.doJSON(t, http.MethodPut, fmt.Sprintf("/api/messages/%d", id), alexToken,
		`{"content":"edited"}`)
	if status != http.StatusOK {
		t.Fatalf("author edit status = %d, want 200", status)
	}
	if got := dataMap(t, envelope)["content"]; got != "edited" {
		t.Errorf("edited content = %v, want edited", got)
	}
}

func TestDeleteMessageNotFoundAndBadID(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "alex", "secret12")

	status, envelope := env.doJSON(t, http.MethodDelete, "/api/messages/9999", token, "")
	if status != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", status)
	}
	if envelope.Code != errs.ErrMessageNotFound {
		t.Errorf("unknown id code = %d, want %d", envelope.Code, errs.ErrMessageNotFound)
	}

	status, envelope = env.doJSON(t, http.MethodDelete, "/api/messages/abc", token, "")
	if status != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", status)
	}
	if envelope.Code != errs.ErrInvalidParams {
		t.Errorf("bad id code = %d, want %d", envelope.Code, errs.ErrInvalidParams)
	}
}

func TestClearOwnMessagesReportsCount(t *testing.T) {
	env := newTestEnv(t)
	alexToken := env.seedUser(t, "alex", "secret12")
	mariaToken := env.seedUser(t, "maria", "secret12")

	env.doJSON(t, http.MethodPost, "/api/messages/", alexToken, `{"content":"one"}`)
	env.doJSON(t, http.MethodPost, "/api/messages/", alexToken, `{"content":"two"}`)
	env.doJSON(t, http.MethodPost, "/api/messages/", mariaToken, `{"content":"hers"}`)

	status, envelope := env.doJSON(t, http.MethodDelete, "/api/messages/", alexToken, "")
	if status != http.StatusOK {
		t.Fatalf("clear status = %d, want 200", status)
	}
	if got := dataMap(t, envelope)["deleted_count"].(float64); got != 2 {
		t.Fatalf("deleted_count = %v, want 2", got)
	}

	status, envelope = env.doJSON(t, http.MethodGet, "/api/messages/", mariaToken, "")
	if status != http.StatusOK {
		t.Fatal("list after clear failed")
	}
	messages := dataMap(t, envelope)["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("remaining messages = %d, want maria's one row", len(messages))
	}
}

func TestUploadSubmitsOneMessagePerFile(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "alex", "secret12")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, name := range []string{"one.png", "two.png"} {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte("fake image bytes"))
	}
	writer.Close()

	req, _ := http.NewRequest(http.MethodPost, env.server.URL+"/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := env.server.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("upload status = %d, want 200", res.StatusCode)
	}

	status, envelope := env.doJSON(t, http.MethodGet, "/api/messages/", token, "")
	if status != http.StatusOK {
		t.Fatal("list after upload failed")
	}
	messages := dataMap(t, envelope)["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("listed %d messages after upload, want 2", len(messages))
	}

	first := messages[0].(map[string]any)
	if first["file_url"] == nil || first["file_url"] == "" {
		t.Error("uploaded message carries no file_url")
	}
	if first["content"] != "Sent a file" {
		t.Errorf("default caption = %v, want %q", first["content"], "Sent a file")
	}

	env.files.mu.Lock()
	savedCount := len(env.files.saved)
	env.files.mu.Unlock()
	if savedCount != 2 {
		t.Errorf("content store holds %d objects, want 2", savedCount)
	}
}

func TestUploadWithoutFilesIsRejected(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "alex", "secret12")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("content", "caption only")
	writer.Close()

	req, _ := http.NewRequest(http.MethodPost, env.server.URL+"/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := env.server.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("upload status = %d, want 400", res.StatusCode)
	}
}
