package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/walaz05/vivomejor/internal/services"
	"github.com/walaz05/vivomejor/internal/session"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// ScheduleHandler handles HTTP requests for the daily planner.
type ScheduleHandler struct {
	Service  *services.ScheduleService
	Sessions *session.Manager
}

// NewScheduleHandler creates a new instance of ScheduleHandler.
func NewScheduleHandler(service *services.ScheduleService, sessions *session.Manager) *ScheduleHandler {
	return &ScheduleHandler{Service: service, Sessions: sessions}
}

// ListScheduleHandler returns the caller's planned activities.
func (h *ScheduleHandler) ListScheduleHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	slots, err := h.Service.ListSlots(r.Context(), sess.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to list schedule")
		http.Error(w, "Failed to retrieve schedule", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, slots)
}

// SetSlotHandler writes the activity at one hour.
func (h *ScheduleHandler) SetSlotHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	hour, err := strconv.Atoi(mux.Vars(r)["hour"])
	if err != nil {
		http.Error(w, "Invalid hour", http.StatusBadRequest)
		return
	}

	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.Service.SetSlot(r.Context(), sess.UserID, hour, req.Description); err != nil {
		if errors.Is(err, services.ErrInvalidHour) || errors.Is(err, services.ErrEmptyText) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logrus.WithError(err).WithField("hour", hour).Error("Failed to save schedule slot")
		http.Error(w, "Failed to save schedule slot", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// ClearSlotHandler deletes the activity at one hour.
func (h *ScheduleHandler) ClearSlotHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	hour, err := strconv.Atoi(mux.Vars(r)["hour"])
	if err != nil {
		http.Error(w, "Invalid hour", http.StatusBadRequest)
		return
	}

	if err := h.Service.ClearSlot(r.Context(), sess.UserID, hour); err != nil {
		if errors.Is(err, services.ErrInvalidHour) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logrus.WithError(err).WithField("hour", hour).Error("Failed to clear schedule slot")
		http.Error(w, "Failed to clear schedule slot", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
