package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/walaz05/vivomejor/internal/models"
	"github.com/walaz05/vivomejor/internal/notify"
	"github.com/walaz05/vivomejor/internal/services"
	"github.com/walaz05/vivomejor/internal/session"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// ItemHandler handles HTTP requests for habits and vision-board goals.
type ItemHandler struct {
	Service  *services.ItemService
	Sessions *session.Manager
}

// NewItemHandler creates a new instance of ItemHandler.
func NewItemHandler(service *services.ItemService, sessions *session.Manager) *ItemHandler {
	return &ItemHandler{Service: service, Sessions: sessions}
}

// ListItemsHandler returns the caller's items, optionally filtered by kind.
func (h *ItemHandler) ListItemsHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	kind := models.ItemKind(r.URL.Query().Get("kind"))
	items, err := h.Service.ListItems(r.Context(), sess.UserID, kind)
	if err != nil {
		logrus.WithError(err).Error("Failed to list items")
		http.Error(w, "Failed to retrieve items", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// CreateItemHandler creates a habit or a goal.
func (h *ItemHandler) CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Kind   models.ItemKind `json:"kind"`
		Name   string          `json:"name"`
		Target int             `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	item, err := h.Service.CreateItem(r.Context(), sess.UserID, req.Kind, req.Name, req.Target)
	if err != nil {
		if errors.Is(err, services.ErrEmptyName) || errors.Is(err, services.ErrInvalidTarget) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logrus.WithError(err).Error("Failed to create item")
		sess.Notifications.Enqueue("Error al guardar", notify.KindError)
		http.Error(w, "Failed to create item", http.StatusInternalServerError)
		return
	}

	sess.Notifications.Enqueue("Guardado correctamente", notify.KindSuccess)
	writeJSON(w, http.StatusCreated, item)
}

// CompleteHabitHandler grants today's completion credit for a habit.
func (h *ItemHandler) CompleteHabitHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	itemID := mux.Vars(r)["id"]
	item, err := h.Service.CompleteToday(r.Context(), sess.UserID, itemID, sess.Ledger)
	switch {
	case errors.Is(err, services.ErrAlreadyCompletedToday):
		// Logical rejection, not an error: already got today's credit.
		sess.Notifications.Enqueue("Ya completaste este hábito hoy", notify.KindInfo)
		writeJSON(w, http.StatusOK, map[string]string{"status": "already_completed"})
		return
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	case errors.Is(err, services.ErrWrongOwner):
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	case errors.Is(err, services.ErrWrongKind):
		http.Error(w, "Not a habit", http.StatusBadRequest)
		return
	case err != nil:
		logrus.WithError(err).WithField("itemID", itemID).Error("Failed to complete habit")
		sess.Notifications.Enqueue("Error de conexión", notify.KindError)
		http.Error(w, "Failed to complete habit", http.StatusInternalServerError)
		return
	}

	sess.Notifications.Enqueue("¡Racha aumentada! 🔥", notify.KindSuccess)
	writeJSON(w, http.StatusOK, item)
}

// ToggleGoalHandler flips a goal's completed flag.
func (h *ItemHandler) ToggleGoalHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	itemID := mux.Vars(r)["id"]
	item, err := h.Service.ToggleGoal(r.Context(), sess.UserID, itemID, sess.Ledger)
	switch {
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	case errors.Is(err, services.ErrWrongOwner):
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	case errors.Is(err, services.ErrWrongKind):
		http.Error(w, "Not a goal", http.StatusBadRequest)
		return
	case err != nil:
		logrus.WithError(err).WithField("itemID", itemID).Error("Failed to toggle goal")
		http.Error(w, "Failed to toggle goal", http.StatusInternalServerError)
		return
	}

	if item.Completed {
		sess.Notifications.Enqueue("¡Meta Alcanzada! 🎉", notify.KindSuccess)
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteItemHandler removes an item.
func (h *ItemHandler) DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	itemID := mux.Vars(r)["id"]
	if err := h.Service.DeleteItem(r.Context(), sess.UserID, itemID); err != nil {
		logrus.WithError(err).WithField("itemID", itemID).Error("Failed to delete item")
		http.Error(w, "Failed to delete item", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
