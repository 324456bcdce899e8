package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/toolshelf/internal/userservice"
)

func TestRecoverPanic(t *testing.T) {
	app := newTestApplication(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()

	app.recoverPanic(handler).ServeHTTP(res, req)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "close", res.Header().Get("Connection"))
}

func TestRequestID(t *testing.T) {
	app := newTestApplication(t)

	var seen string
	handler := app.requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getRequestID(r)
	}))

	testCases := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "Generated", incoming: ""},
		{name: "Garbage Replaced", incoming: "not-a-uuid"},
		{name: "Upstream Kept", incoming: "4b1d3c9e-5a8f-4f2e-9a53-2e0c7d6b8a11", keep: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.incoming != "" {
				req.Header.Set("X-Request-Id", tc.incoming)
			}
			res := httptest.NewRecorder()

			handler.ServeHTTP(res, req)

			got := res.Header().Get("X-Request-Id")
			assert.Equal(t, got, seen)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
			if tc.keep {
				assert.Equal(t, tc.incoming, got)
			} else {
				assert.NotEqual(t, tc.incoming, got)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	app := newTestApplication(t)

	var user *userservice.User
	handler := app.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user = app.getUserContext(r)
	}))

	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
		anonymous  bool
	}{
		{name: "No Header", wantStatus: http.StatusOK, anonymous: true},
		{name: "Valid Token", header: "Bearer " + adminToken, wantStatus: http.StatusOK, wantUser: "admin"},
		{name: "Lowercase Scheme", header: "bearer " + editorToken, wantStatus: http.StatusOK, wantUser: "editor"},
		{name: "Wrong Scheme", header: "Basic YWRtaW46c2VjcmV0", wantStatus: http.StatusUnauthorized},
		{name: "Missing Token", header: "Bearer", wantStatus: http.StatusUnauthorized},
		{name: "Unknown Token", header: "Bearer ZZZZZZZZZZZZZZZZZZZZZZZZZZ", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			user = nil

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			res := httptest.NewRecorder()

			handler.ServeHTTP(res, req)

			assert.Equal(t, tc.wantStatus, res.Code)
			assert.Contains(t, res.Header().Values("Vary"), "Authorization")

			switch {
			case tc.wantStatus == http.StatusUnauthorized:
				assert.Nil(t, user)
				assert.Equal(t, "Bearer", res.Header().Get("WWW-Authenticate"))
			case tc.anonymous:
				assert.True(t, user.IsAnonymous())
			default:
				assert.Equal(t, tc.wantUser, user.Username)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	app := newTestApplication(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := app.authenticate(app.requireAdmin(next))

	testCases := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "Anonymous", wantStatus: http.StatusUnauthorized},
		{name: "Editor", token: editorToken, wantStatus: http.StatusForbidden},
		{name: "Admin", token: adminToken, wantStatus: http.StatusNoContent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/tools", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			res := httptest.NewRecorder()

			handler.ServeHTTP(res, req)

			assert.Equal(t, tc.wantStatus, res.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	app := newTestApplication(t)
	routes := app.routes()

	testCases := []struct {
		name       string
		origin     string
		wantOrigin string
	}{
		{name: "Trusted Origin", origin: "http://localhost:3000", wantOrigin: "http://localhost:3000"},
		{name: "Untrusted Origin", origin: "https://evil.example.com", wantOrigin: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/v1/tools", nil)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			res := httptest.NewRecorder()

			routes.ServeHTTP(res, req)

			assert.Equal(t, tc.wantOrigin, res.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
