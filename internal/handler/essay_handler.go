package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"femilyship-web/internal/api"
	"femilyship-web/internal/data"
	"femilyship-web/internal/logger"
	"femilyship-web/internal/middleware"
	"femilyship-web/internal/service"
	"femilyship-web/internal/session"
	"femilyship-web/internal/view"
)

// EssayHandler holds the dependencies for the essay pages.
type EssayHandler struct {
	renderer
	essays service.EssayServicer
	log    logger.Logger
}

// NewEssayHandler creates a new EssayHandler.
func NewEssayHandler(es service.EssayServicer, v *view.View, flash session.Flash, log logger.Logger) *EssayHandler {
	return &EssayHandler{
		renderer: renderer{view: v, flash: flash},
		essays:   es,
		log:      log,
	}
}

// viewHandler shows an essay. Edit and delete controls are offered to its author only.
func (h *EssayHandler) viewHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Essay not found", Code: http.StatusNotFound}
	}

	essay, err := h.essays.GetEssay(r.Context(), id)
	if err != nil {
		h.log.Error(err, fmt.Sprintf("Failed to load essay %d", id))
		var message string
		switch api.KindOf(err) {
		case api.KindNotFound:
			message = "Essay not found"
		case api.KindServer:
			message = "Server error. Please try again later."
		default:
			message = "Failed to load essay. Please try again later."
		}
		pageData := view.Page{
			"State": view.Failed(message, essayURL(id)),
		}
		return h.render(w, r, statusFor(err), "essay.html", pageData)
	}

	pageData := view.Page{
		"Essay":     essay,
		"CanModify": h.essays.CanModify(essay),
	}
	return h.render(w, r, http.StatusOK, "essay.html", pageData)
}

// editHandler displays the form for editing an essay.
func (h *EssayHandler) editHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Essay not found", Code: http.StatusNotFound}
	}

	essay, state, status := h.loadForChange(r, id)
	pageData := view.Page{
		"State": state,
	}
	if essay != nil {
		pageData["Essay"] = essay
		pageData["Input"] = data.EssayInput{Title: essay.Title, Content: essay.Content, TopicID: essay.TopicID}
	}
	return h.render(w, r, status, "essay_edit.html", pageData)
}

// saveHandler handles the edit form submission.
func (h *EssayHandler) saveHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Essay not found", Code: http.StatusNotFound}
	}

	in := data.EssayInput{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
	}
	if topicID, err := strconv.ParseInt(r.FormValue("topicId"), 10, 64); err == nil {
		in.TopicID = topicID
	}

	essay, err := h.essays.GetEssay(r.Context(), id)
	if err != nil {
		state, status := fetchFailure(err, id)
		return h.render(w, r, status, "essay_edit.html", view.Page{"State": state})
	}

	if err := h.essays.UpdateEssay(r.Context(), essay, in); err != nil {
		h.log.Error(err, fmt.Sprintf("Failed to update essay %d", id))
		state, status := saveFailure(err)
		pageData := view.Page{
			"State": state,
			"Essay": essay,
			"Input": in,
		}
		return h.render(w, r, status, "essay_edit.html", pageData)
	}

	redirect(w, r, essayURL(id))
	return nil
}

// deleteConfirmHandler asks the author to confirm the deletion.
func (h *EssayHandler) deleteConfirmHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Essay not found", Code: http.StatusNotFound}
	}

	essay, state, status := h.loadForChange(r, id)
	pageData := view.Page{
		"State": state,
	}
	if essay != nil {
		pageData["Essay"] = essay
	}
	return h.render(w, r, status, "essay_delete.html", pageData)
}

// deleteHandler deletes the essay and returns to its topic.
func (h *EssayHandler) deleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Essay not found", Code: http.StatusNotFound}
	}

	essay, err := h.essays.GetEssay(r.Context(), id)
	if err != nil {
		state, status := fetchFailure(err, id)
		return h.render(w, r, status, "essay_delete.html", view.Page{"State": state})
	}

	if err := h.essays.DeleteEssay(r.Context(), essay); err != nil {
		h.log.Error(err, fmt.Sprintf("Failed to delete essay %d", id))
		state := view.Failed("Failed to delete essay. Please try again.", "")
		state.Reauth = api.KindOf(err) == api.KindAuth
		pageData := view.Page{
			"State": state,
			"Essay": essay,
		}
		return h.render(w, r, statusFor(err), "essay_delete.html", pageData)
	}

	if essay.TopicID != 0 {
		redirect(w, r, fmt.Sprintf("/topic/%d", essay.TopicID))
		return nil
	}
	redirect(w, r, "/")
	return nil
}

// loadForChange fetches an essay and applies the ownership gate.
// On failure the essay is nil and the state explains why.
func (h *EssayHandler) loadForChange(r *http.Request, id int64) (*data.Essay, view.State, int) {
	essay, err := h.essays.GetEssay(r.Context(), id)
	if err != nil {
		h.log.Error(err, fmt.Sprintf("Failed to load essay %d for editing", id))
		state, status := fetchFailure(err, id)
		return nil, state, status
	}

	if err := h.essays.CheckOwner(essay); err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			return nil, view.ReauthRequired("Please log in to edit essays"), http.StatusUnauthorized
		}
		return nil, view.Failed("You are not authorized to edit this essay.", ""), http.StatusForbidden
	}
	return essay, view.Ready(), http.StatusOK
}

// fetchFailure maps a failed essay fetch on the edit and delete pages.
func fetchFailure(err error, id int64) (view.State, int) {
	switch {
	case api.KindOf(err) == api.KindNotFound:
		return view.Failed("Essay not found", ""), http.StatusNotFound
	case api.StatusOf(err) == http.StatusForbidden:
		return view.Failed("You are not authorized to edit this essay", ""), http.StatusForbidden
	case api.StatusOf(err) == http.StatusUnauthorized:
		return view.ReauthRequired("Please log in to edit essays"), http.StatusUnauthorized
	default:
		return view.Failed("Failed to load essay. Please try again later.", essayURL(id)), statusFor(err)
	}
}

// saveFailure maps a failed essay update.
func saveFailure(err error) (view.State, int) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		return view.ReauthRequired("You must be logged in to edit essays"), http.StatusUnauthorized
	case errors.Is(err, service.ErrNotOwner):
		return view.Failed("You are not authorized to edit this essay.", ""), http.StatusForbidden
	case api.StatusOf(err) == http.StatusUnauthorized:
		return view.ReauthRequired("Authentication failed. Please log in again."), http.StatusUnauthorized
	case api.StatusOf(err) == http.StatusForbidden:
		return view.ReauthRequired("You are not authorized to edit this essay"), http.StatusForbidden
	case api.KindOf(err) == api.KindNotFound:
		return view.Failed("Essay not found", ""), http.StatusNotFound
	case api.KindOf(err) == api.KindValidation:
		return view.Failed(api.MessageOf(err), ""), http.StatusBadRequest
	}

	message := "Failed to update essay. Please try again."
	if status := api.StatusOf(err); status != 0 {
		if msg := api.MessageOf(err); msg != "" && msg != http.StatusText(status) {
			message = msg
		}
	}
	return view.Failed(message, ""), statusFor(err)
}

func essayURL(id int64) string {
	return fmt.Sprintf("/essay/%d", id)
}
