package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/sushihentaime/toolshelf/internal/catalog"
)

// listPostsHandler lists posts. Only administrators may ask for drafts.
func (app *application) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	f := app.readFilter(r)
	f.Published = catalog.PublishedOnly
	if app.getUserContext(r).IsAdmin() {
		f.Published = catalog.ParsePublished(r.URL.Query().Get("published"))
	}

	posts, err := app.posts.List(r.Context(), f)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": posts}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showPostHandler accepts either a numeric id or a slug. Drafts are hidden from everyone but administrators.
func (app *application) showPostHandler(w http.ResponseWriter, r *http.Request) {
	param := httprouter.ParamsFromContext(r.Context()).ByName("id")

	var (
		post *catalog.Post
		err  error
	)
	if id, convErr := strconv.Atoi(param); convErr == nil {
		post, err = app.posts.Get(r.Context(), id)
	} else {
		post, err = app.posts.GetBySlug(r.Context(), param)
	}
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	if !post.Published && !app.getUserContext(r).IsAdmin() {
		app.notFoundErrorResponse(w, r)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) postCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := app.posts.Categories(r.Context())
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"categories": categories}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) postTagsHandler(w http.ResponseWriter, r *http.Request) {
	tags, err := app.posts.Tags(r.Context())
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"tags": tags}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var input catalog.PostDraft

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	created, err := app.posts.Create(r.Context(), app.getUserContext(r), input.Post())
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/posts/%d", created.ID))

	err = app.writeJSON(w, http.StatusCreated, envelope{"post": created}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var input catalog.PostDraft

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	updated, err := app.posts.Update(r.Context(), app.getUserContext(r), id, input.Patch())
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": updated}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	deleted, err := app.posts.Delete(r.Context(), app.getUserContext(r), id)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"deleted": deleted}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
