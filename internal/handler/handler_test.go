package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"groupchat/internal/app/chat"
	"groupchat/internal/app/message"
	"groupchat/internal/app/storage"
	"groupchat/internal/app/store"
	"groupchat/internal/configs"
	"groupchat/internal/pkg/auth"
	"groupchat/internal/pkg/auth/jwt"
	"groupchat/internal/pkg/resp"
)

const testJWTSecret = "handler-test-secret"

// testUserStore is an in-memory store.UserStore.
type testUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]store.User
}

func newTestUserStore() *testUserStore {
	return &testUserStore{users: make(map[string]store.User)}
}

func (s *testUserStore) CreateUser(ctx context.Context, username, email, passwordHash string) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return store.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	}

	s.nextID++
	u := store.User{
		ID:           s.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	s.users[username] = u
	return u, nil
}

func (s *testUserStore) GetUserByUsername(ctx context.Context, username string) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *testUserStore) usernameByID(id int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, u := range s.users {
		if u.ID == id {
			return name
		}
	}
	return ""
}

// testMessageStore is an in-memory store.MessageStore.
type testMessageStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]store.Message
	order  []int64
	users  *testUserStore
}

func newTestMessageStore(users *testUserStore) *testMessageStore {
	return &testMessageStore{rows: make(map[int64]store.Message), users: users}
}

func (s *testMessageStore) CreateMessage(ctx context.Context, params store.CreateMessageParams) (store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	room := params.Room
	if room == "" {
		room = store.DefaultRoom
	}

	m := store.Message{
		ID:         s.nextID,
		UserID:     params.UserID,
		Username:   s.users.usernameByID(params.UserID),
		Content:    params.Content,
		Room:       room,
		CreatedAt:  time.Now(),
		Attachment: params.Attachment,
	}
	s.rows[m.ID] = m
	s.order = append(s.order, m.ID)
	return m, nil
}

func (s *testMessageStore) GetMessageByID(ctx context.Context, id int64) (store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.rows[id]
	if !ok {
		return store.Message{}, store.ErrNotFound
	}
	return m, nil
}

func (s *testMessageStore) ListRecentMessages(ctx context.Context, room string, limit int32) ([]store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []store.Message
	for _, id := range s.order {
		if m, ok := s.rows[id]; ok && m.Room == room {
			matched = append(matched, m)
		}
	}
	if int32(len(matched)) > limit {
		matched = matched[int32(len(matched))-limit:]
	}
	return matched, nil
}

func (s *testMessageStore) UpdateMessageContent(ctx context.Context, id int64, content string) (store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.rows[id]
	if !ok {
		return store.Message{}, store.ErrNotFound
	}
	m.Content = content
	s.rows[id] = m
	return m, nil
}

func (s *testMessageStore) DeleteMessage(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *testMessageStore) ListMessagesByAuthor(ctx context.Context, userID int64) ([]store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var owned []store.Message
	for _, id := range s.order {
		if m, ok := s.rows[id]; ok && m.UserID == userID {
			owned = append(owned, m)
		}
	}
	return owned, nil
}

func (s *testMessageStore) DeleteMessagesByAuthor(ctx context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for id, m := range s.rows {
		if m.UserID == userID {
			delete(s.rows, id)
			count++
		}
	}
	return count, nil
}

// testContentStore is an in-memory storage.ContentStore.
type testContentStore struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
}

func (s *testContentStore) Save(ctx context.Context, content io.Reader, originalName, mimeType string, size int64) (*storage.SavedObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	url := "https://files.test/" + originalName
	s.saved = append(s.saved, url)
	return &storage.SavedObject{
		URL:  url,
		Key:  originalName,
		Name: originalName,
		Size: size,
		Kind: storage.ClassifyKind(mimeType),
	}, nil
}

func (s *testContentStore) Delete(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, url)
	return nil
}

// testEnv bundles a running server with its backing fakes.
type testEnv struct {
	server   *httptest.Server
	users    *testUserStore
	messages *testMessageStore
	files    *testContentStore
	registry *chat.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newTestUserStore()
	messages := newTestMessageStore(users)
	files := &testContentStore{}
	registry := chat.NewRegistry()
	ingress := message.NewService(users, messages, files, registry)

	deps := &AppDeps{
		Config: &configs.AppConfig{
			Environment: "development",
			Port:        8080,
			JWTSecret:   testJWTSecret,
		},
		Registry: registry,
		Ingress:  ingress,
		Users:    users,
		Files:    files,
	}

	server := httptest.NewServer(Router(deps))
	t.Cleanup(server.Close)

	return &testEnv{server: server, users: users, messages: messages, files: files, registry: registry}
}

// seedUser creates an account directly in the store and returns a bearer
// token for it.
func (e *testEnv) seedUser(t *testing.T, username, password string) string {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.users.CreateUser(context.Background(), username, username+"@example.com", hash); err != nil {
		t.Fatal(err)
	}

	token, err := jwt.GenerateToken(username, testJWTSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

// doJSON issues a request with an optional bearer token and JSON body, and
// decodes the response envelope.
func (e *testEnv) doJSON(t *testing.T, method, path, token, body string) (int, resp.JSONResponse) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	var envelope resp.JSONResponse
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response envelope: %v", err)
	}
	return res.StatusCode, envelope
}

func jsonBody(body string) io.Reader {
	return strings.NewReader(body)
}

// dataMap asserts the envelope data is a JSON object and returns it.
func dataMap(t *testing.T, envelope resp.JSONResponse) map[string]any {
	t.Helper()

	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("envelope data = %T, want object", envelope.Data)
	}
	return data
}
