package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"dragnotes/models"
	"dragnotes/service"
)

const (
	msgNoteNotFound      = "Note not found."
	msgNoteNotAuthorized = "Note not found or not authorized."
)

// noteRequest is the body of create and update. Blocks is a pointer so that
// a missing field can be told apart from an empty array.
type noteRequest struct {
	Title  string                `json:"title"`
	Blocks *[]service.BlockInput `json:"blocks"`
}

func (req noteRequest) input() service.NoteInput {
	return service.NoteInput{Title: req.Title, Blocks: req.Blocks}
}

type reorderRequest struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
}

type notesResponse struct {
	Message string        `json:"message"`
	Notes   []models.Note `json:"notes"`
}

type noteResponse struct {
	Message string      `json:"message"`
	Note    models.Note `json:"note"`
}

func noteID(r *http.Request) string {
	return chi.URLParam(r, "noteID")
}

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	notes, err := h.notes.List(r.Context(), id)
	if err != nil {
		writeError(w, r, err, failure{internal: "Fetching notes failed."})
		return
	}

	writeJSON(w, http.StatusOK, notesResponse{Message: "Notes fetched successfully", Notes: notes})
}

func (h *Handler) listArchivedNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	notes, err := h.notes.ListArchived(r.Context(), id)
	if err != nil {
		writeError(w, r, err, failure{internal: "Fetching archived notes failed."})
		return
	}

	writeJSON(w, http.StatusOK, notesResponse{Message: "Archived notes fetched successfully", Notes: notes})
}

func (h *Handler) getNote(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	note, err := h.notes.Get(r.Context(), id, noteID(r))
	if err != nil {
		writeError(w, r, err, failure{notFound: msgNoteNotFound, internal: "Fetching note failed."})
		return
	}

	writeJSON(w, http.StatusOK, noteResponse{Message: "Note fetched successfully", Note: note})
}

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	f := failure{internal: "Creating note failed."}

	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, f)
		return
	}

	note, err := h.notes.Create(r.Context(), id, req.input())
	if err != nil {
		writeError(w, r, err, f)
		return
	}

	writeJSON(w, http.StatusCreated, noteResponse{Message: "Note created successfully", Note: note})
}

func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	f := failure{notFound: msgNoteNotAuthorized, internal: "Updating note failed."}

	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, f)
		return
	}

	note, err := h.notes.Update(r.Context(), id, noteID(r), req.input())
	if err != nil {
		writeError(w, r, err, f)
		return
	}

	writeJSON(w, http.StatusOK, noteResponse{Message: "Note updated successfully", Note: note})
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.notes.Delete(r.Context(), id, noteID(r)); err != nil {
		writeError(w, r, err, failure{notFound: msgNoteNotAuthorized, internal: "Deleting note failed."})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Note deleted successfully"})
}

func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	note, err := h.notes.ToggleFavorite(r.Context(), id, noteID(r))
	if err != nil {
		writeError(w, r, err, failure{notFound: msgNoteNotAuthorized, internal: "Toggling favorite failed."})
		return
	}

	msg := "Note removed from favorites"
	if note.IsFavorite {
		msg = "Note added to favorites"
	}
	writeJSON(w, http.StatusOK, noteResponse{Message: msg, Note: note})
}

func (h *Handler) toggleArchive(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	note, err := h.notes.ToggleArchive(r.Context(), id, noteID(r))
	if err != nil {
		writeError(w, r, err, failure{notFound: msgNoteNotAuthorized, internal: "Toggling archive failed."})
		return
	}

	msg := "Note unarchived"
	if note.IsArchived {
		msg = "Note archived"
	}
	writeJSON(w, http.StatusOK, noteResponse{Message: msg, Note: note})
}

func (h *Handler) reorderNotes(w http.ResponseWriter, r *http.Request) {
	f := failure{notFound: "One or both notes not found or not authorized.", internal: "Reordering notes failed."}

	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, f)
		return
	}

	if err := h.notes.Reorder(r.Context(), id, req.SourceID, req.TargetID); err != nil {
		writeError(w, r, err, f)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Notes reordered successfully"})
}
