package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/walaz05/vivomejor/internal/game"
	"github.com/walaz05/vivomejor/internal/session"
	"github.com/sirupsen/logrus"
)

// ProgressHandler exposes the gamification ledger.
type ProgressHandler struct {
	Sessions *session.Manager
}

// NewProgressHandler creates a new instance of ProgressHandler.
func NewProgressHandler(sessions *session.Manager) *ProgressHandler {
	return &ProgressHandler{Sessions: sessions}
}

// GetProgressHandler returns the caller's current level, XP and the
// threshold for the next level.
func (h *ProgressHandler) GetProgressHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		logrus.WithError(err).Warn("Unauthorized progress fetch")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"level":            sess.Ledger.Level(),
		"xp":               sess.Ledger.XP(),
		"xp_to_next_level": sess.Ledger.NextLevelXP(),
	})
}

// AwardXPHandler applies a direct XP award to the caller's ledger.
func (h *ProgressHandler) AwardXPHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromRequest(r, h.Sessions)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	award, err := sess.Ledger.AwardXP(r.Context(), req.Amount)
	if err != nil {
		if err == game.ErrInvalidAmount {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logrus.WithError(err).Error("Failed to award XP")
		http.Error(w, "Failed to award XP", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, award)
}
