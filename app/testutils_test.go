package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/toolshelf/internal/blogservice"
	"github.com/sushihentaime/toolshelf/internal/catalog"
	"github.com/sushihentaime/toolshelf/internal/common"
	"github.com/sushihentaime/toolshelf/internal/toolservice"
	"github.com/sushihentaime/toolshelf/internal/userservice"
)

const (
	adminToken  = "ADMINADMINADMINADMINADMINA"
	editorToken = "EDITOREDITOREDITOREDITORED"
)

// fakeAuth stands in for the user service: one administrator and one user without permissions.
type fakeAuth struct {
	mu     sync.Mutex
	users  map[string]*userservice.User
	tokens map[string]*userservice.User
}

func newFakeAuth() *fakeAuth {
	admin := &userservice.User{ID: 1, Username: "admin", Email: "admin@example.com", Permissions: userservice.Permissions{userservice.PermissionCatalogAdmin}}
	editor := &userservice.User{ID: 2, Username: "editor", Email: "editor@example.com"}

	return &fakeAuth{
		users:  map[string]*userservice.User{"admin": admin, "editor": editor},
		tokens: map[string]*userservice.User{adminToken: admin, editorToken: editor},
	}
}

func (f *fakeAuth) LoginUser(ctx context.Context, login, password string) (*userservice.AuthToken, error) {
	v := common.NewValidator()
	v.Check(login != "", "login", "must be provided")
	v.Check(password != "", "password", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[login]
	if !ok || password != "Secret_1234!" {
		return nil, userservice.ErrAuthenticationFailure
	}

	for token, owner := range f.tokens {
		if owner == u {
			return &userservice.AuthToken{AccessTokenPlain: token, UserID: u.ID, AccessTokenExpiry: time.Now().Add(userservice.AccessTokenTime)}, nil
		}
	}

	return nil, userservice.ErrAuthenticationFailure
}

func (f *fakeAuth) GetUserByAccessToken(ctx context.Context, token string) (*userservice.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.tokens[token]
	if !ok {
		return nil, userservice.ErrNotFound
	}

	return u, nil
}

func (f *fakeAuth) LogoutUser(ctx context.Context, user *userservice.User) error {
	if user.IsAnonymous() {
		return common.ErrAuthRequired
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for token, owner := range f.tokens {
		if owner.ID == user.ID {
			delete(f.tokens, token)
		}
	}

	return nil
}

type testApp struct {
	*application
	toolStore *toolservice.MemoryStore
	postStore *blogservice.MemoryStore
}

func newTestApplication(t *testing.T) *testApp {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := common.NewCache(time.Minute, time.Minute)
	toolStore := toolservice.NewMemoryStore()
	postStore := blogservice.NewMemoryStore()

	app := &application{
		config: &common.Config{
			Environment:    "testing",
			Version:        "1.0.0",
			TrustedOrigins: []string{"http://localhost:3000"},
		},
		logger:  logger,
		started: time.Now(),
		users:   newFakeAuth(),
		tools:   toolservice.NewToolServiceWithStore(toolStore, cache, nil, logger),
		posts:   blogservice.NewBlogServiceWithStore(postStore, cache, nil, logger),
	}

	return &testApp{application: app, toolStore: toolStore, postStore: postStore}
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var envelope envelope
	require.NoError(t, json.Unmarshal(responseBody, &envelope))

	return res.StatusCode, res.Header, envelope
}

func (ts *testServer) do(t *testing.T, method, path, token string, payload any) (int, http.Header, envelope) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path, token string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodGet, path, token, nil)
}

func (ts *testServer) post(t *testing.T, path, token string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPost, path, token, payload)
}

func (ts *testServer) put(t *testing.T, path, token string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPut, path, token, payload)
}

func (ts *testServer) delete(t *testing.T, path, token string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodDelete, path, token, nil)
}

// decode re-marshals one envelope entry into dst.
func decode(t *testing.T, v any, dst any) {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, dst))
}

func seedTool(t *testing.T, app *testApp, tool catalog.Tool) catalog.Tool {
	t.Helper()

	require.NoError(t, app.toolStore.Insert(context.Background(), &tool))
	return tool
}

func seedPost(t *testing.T, app *testApp, post catalog.Post) catalog.Post {
	t.Helper()

	require.NoError(t, app.postStore.Insert(context.Background(), &post))
	return post
}
