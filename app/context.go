package main

import (
	"context"
	"net/http"

	"github.com/sushihentaime/toolshelf/internal/userservice"
)

type contextKey string

const (
	userContextKey      = contextKey("user")
	requestIDContextKey = contextKey("request_id")
)

func (app *application) createUserContext(r *http.Request, user *userservice.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// getUserContext returns the caller, or the anonymous user when authenticate did not run.
func (app *application) getUserContext(r *http.Request) *userservice.User {
	user, ok := r.Context().Value(userContextKey).(*userservice.User)
	if !ok {
		return &userservice.AnonymousUser
	}
	return user
}

func setRequestID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDContextKey, id)
	return r.WithContext(ctx)
}

func getRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDContextKey).(string)
	return id
}
