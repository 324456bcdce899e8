package main

import (
	"fmt"
	"net/http"

	"github.com/sushihentaime/toolshelf/internal/catalog"
)

func (app *application) listToolsHandler(w http.ResponseWriter, r *http.Request) {
	tools, err := app.tools.List(r.Context(), app.readFilter(r))
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"tools": tools}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) showToolHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	tool, err := app.tools.Get(r.Context(), id)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"tool": tool}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) toolCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := app.tools.Categories(r.Context())
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"categories": categories}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createToolHandler(w http.ResponseWriter, r *http.Request) {
	var input catalog.ToolDraft

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	tool, err := input.Tool()
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	created, err := app.tools.Create(r.Context(), app.getUserContext(r), tool)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/tools/%d", created.ID))

	err = app.writeJSON(w, http.StatusCreated, envelope{"tool": created}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateToolHandler saves the full edit form. A draft whose resources do not parse is rejected
// before the stored record is touched.
func (app *application) updateToolHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var input catalog.ToolDraft

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	patch, err := input.Patch()
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	updated, err := app.tools.Update(r.Context(), app.getUserContext(r), id, patch)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"tool": updated}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteToolHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	deleted, err := app.tools.Delete(r.Context(), app.getUserContext(r), id)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"deleted": deleted}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
