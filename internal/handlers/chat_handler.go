package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/walaz05/vivomejor/internal/notify"
	"github.com/walaz05/vivomejor/internal/services"
	"github.com/walaz05/vivomejor/internal/session"
	"github.com/sirupsen/logrus"
)

// ChatHandler handles the coaching conversation endpoints.
type ChatHandler struct {
	Service  *services.ChatService
	Sessions *session.Manager
}

// NewChatHandler creates a new instance of ChatHandler.
func NewChatHandler(service *services.ChatService, sessions *session.Manager) *ChatHandler {
	return &ChatHandler{Service: service, Sessions: sessions}
}

// HistoryHandler returns the caller's conversation, oldest first.
func (h *ChatHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	messages, err := h.Service.History(r.Context(), sess.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch chat history")
		http.Error(w, "Failed to retrieve chat history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// SendHandler persists the caller's message; the coach reply lands on the
// stream shortly after.
func (h *ChatHandler) SendHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	msg, err := h.Service.Send(r.Context(), sess.UserID, sess.DisplayName, req.Text)
	if err != nil {
		if errors.Is(err, services.ErrEmptyText) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logrus.WithError(err).Error("Failed to send chat message")
		sess.Notifications.Enqueue("Error de conexión", notify.KindError)
		http.Error(w, "Failed to send message", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}
