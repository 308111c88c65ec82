package handlers

import (
	"net/http"

	"github.com/walaz05/vivomejor/internal/session"
	"github.com/gorilla/mux"
)

// NotificationHandler exposes the caller's ephemeral notification queue.
type NotificationHandler struct {
	Sessions *session.Manager
}

// NewNotificationHandler creates a new instance of NotificationHandler.
func NewNotificationHandler(sessions *session.Manager) *NotificationHandler {
	return &NotificationHandler{Sessions: sessions}
}

// ListNotificationsHandler returns the live notifications in insertion
// order. Expired entries are already gone.
func (h *NotificationHandler) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, sess.Notifications.List())
}

// DismissNotificationHandler removes a notification before its window
// elapses. Dismissing an unknown id is a no-op.
func (h *NotificationHandler) DismissNotificationHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sess.Notifications.Dismiss(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}
