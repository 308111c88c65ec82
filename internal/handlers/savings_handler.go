package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/walaz05/vivomejor/internal/notify"
	"github.com/walaz05/vivomejor/internal/services"
	"github.com/walaz05/vivomejor/internal/session"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// SavingsHandler handles HTTP requests for savings goals.
type SavingsHandler struct {
	Service  *services.SavingsService
	Sessions *session.Manager
}

// NewSavingsHandler creates a new instance of SavingsHandler.
func NewSavingsHandler(service *services.SavingsService, sessions *session.Manager) *SavingsHandler {
	return &SavingsHandler{Service: service, Sessions: sessions}
}

// ListSavingsHandler returns the caller's savings goals.
func (h *SavingsHandler) ListSavingsHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	goals, err := h.Service.ListGoals(r.Context(), sess.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to list savings goals")
		http.Error(w, "Failed to retrieve savings goals", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

// CreateSavingsHandler creates a savings goal.
func (h *SavingsHandler) CreateSavingsHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Name    string  `json:"name"`
		Target  float64 `json:"target"`
		Current float64 `json:"current"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	goal, err := h.Service.CreateGoal(r.Context(), sess.UserID, req.Name, req.Target, req.Current)
	if err != nil {
		if errors.Is(err, services.ErrEmptyName) || errors.Is(err, services.ErrInvalidTarget) || errors.Is(err, services.ErrInvalidAmount) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logrus.WithError(err).Error("Failed to create savings goal")
		sess.Notifications.Enqueue("Error al guardar", notify.KindError)
		http.Error(w, "Failed to create savings goal", http.StatusInternalServerError)
		return
	}

	sess.Notifications.Enqueue("Meta de ahorro creada", notify.KindSuccess)
	writeJSON(w, http.StatusCreated, goal)
}

// DepositHandler adds money to a savings goal.
func (h *SavingsHandler) DepositHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	goalID := mux.Vars(r)["id"]
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	err = h.Service.Deposit(r.Context(), sess.UserID, goalID, req.Amount)
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Savings goal not found", http.StatusNotFound)
		return
	case err != nil:
		logrus.WithError(err).WithField("savingsID", goalID).Error("Failed to deposit")
		sess.Notifications.Enqueue("Error al actualizar", notify.KindError)
		http.Error(w, "Failed to deposit", http.StatusInternalServerError)
		return
	}

	sess.Notifications.Enqueue(fmt.Sprintf("Agregados $%.2f", req.Amount), notify.KindSuccess)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deposited"})
}

// DeleteSavingsHandler removes a savings goal.
func (h *SavingsHandler) DeleteSavingsHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	goalID := mux.Vars(r)["id"]
	if err := h.Service.DeleteGoal(r.Context(), sess.UserID, goalID); err != nil {
		logrus.WithError(err).WithField("savingsID", goalID).Error("Failed to delete savings goal")
		http.Error(w, "Failed to delete savings goal", http.StatusInternalServerError)
		return
	}

	sess.Notifications.Enqueue("Eliminado", notify.KindSuccess)
	w.WriteHeader(http.StatusNoContent)
}
