package main

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// user service
	router.HandlerFunc(http.MethodPost, "/v1/users/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/logout", app.requireAuthUser(app.logoutUserHandler))

	// tool service
	router.HandlerFunc(http.MethodGet, "/v1/tools", app.listToolsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/tools", app.requireAdmin(app.createToolHandler))
	router.HandlerFunc(http.MethodGet, "/v1/tools/:id", app.showToolHandler)
	router.HandlerFunc(http.MethodPut, "/v1/tools/:id", app.requireAdmin(app.updateToolHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/tools/:id", app.requireAdmin(app.deleteToolHandler))
	router.HandlerFunc(http.MethodGet, "/v1/tool-categories", app.toolCategoriesHandler)

	// blog service
	router.HandlerFunc(http.MethodGet, "/v1/posts", app.listPostsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/posts", app.requireAdmin(app.createPostHandler))
	router.HandlerFunc(http.MethodGet, "/v1/posts/:id", app.showPostHandler)
	router.HandlerFunc(http.MethodPut, "/v1/posts/:id", app.requireAdmin(app.updatePostHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/posts/:id", app.requireAdmin(app.deletePostHandler))
	router.HandlerFunc(http.MethodGet, "/v1/post-categories", app.postCategoriesHandler)
	router.HandlerFunc(http.MethodGet, "/v1/post-tags", app.postTagsHandler)

	withCORS := cors.Handler(cors.Options{
		AllowedOrigins: app.config.TrustedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})

	return app.recoverPanic(app.requestID(app.logRequest(withCORS(app.authenticate(router)))))
}
