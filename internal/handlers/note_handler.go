package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/walaz05/vivomejor/internal/notify"
	"github.com/walaz05/vivomejor/internal/services"
	"github.com/walaz05/vivomejor/internal/session"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NoteHandler handles HTTP requests for notes.
type NoteHandler struct {
	Service  *services.NoteService
	Sessions *session.Manager
}

// NewNoteHandler creates a new instance of NoteHandler.
func NewNoteHandler(service *services.NoteService, sessions *session.Manager) *NoteHandler {
	return &NoteHandler{Service: service, Sessions: sessions}
}

// ListNotesHandler returns the caller's notes.
func (h *NoteHandler) ListNotesHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	notes, err := h.Service.ListNotes(r.Context(), sess.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to list notes")
		http.Error(w, "Failed to retrieve notes", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, notes)
}

// CreateNoteHandler stores a note.
func (h *NoteHandler) CreateNoteHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Text  string `json:"text"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	note, err := h.Service.AddNote(r.Context(), sess.UserID, req.Text, req.Color)
	if err != nil {
		if errors.Is(err, services.ErrEmptyText) || errors.Is(err, services.ErrInvalidColor) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logrus.WithError(err).Error("Failed to create note")
		sess.Notifications.Enqueue("No se pudo guardar la nota. Revisa tu conexión.", notify.KindError)
		http.Error(w, "Failed to create note", http.StatusInternalServerError)
		return
	}

	sess.Notifications.Enqueue("Nota agregada correctamente", notify.KindSuccess)
	writeJSON(w, http.StatusCreated, note)
}

// ToggleNoteHandler flips a note's completed flag.
func (h *NoteHandler) ToggleNoteHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	noteID := mux.Vars(r)["id"]
	note, err := h.Service.ToggleNote(r.Context(), sess.UserID, noteID)
	switch {
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Note not found", http.StatusNotFound)
		return
	case errors.Is(err, services.ErrWrongOwner):
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	case err != nil:
		logrus.WithError(err).WithField("noteID", noteID).Error("Failed to toggle note")
		sess.Notifications.Enqueue("Error al actualizar nota", notify.KindError)
		http.Error(w, "Failed to toggle note", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// DeleteNoteHandler removes a note.
func (h *NoteHandler) DeleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	noteID := mux.Vars(r)["id"]
	if err := h.Service.DeleteNote(r.Context(), sess.UserID, noteID); err != nil {
		logrus.WithError(err).WithField("noteID", noteID).Error("Failed to delete note")
		http.Error(w, "Failed to delete note", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
