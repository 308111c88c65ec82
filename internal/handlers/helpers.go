package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/walaz05/vivomejor/internal/session"
	"github.com/walaz05/vivomejor/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// sessionFromRequest resolves the caller's session from the claims the auth
// middleware stored. It fails for unauthenticated requests and for malformed
// user ids.
func sessionFromRequest(r *http.Request, sessions *session.Manager) (*session.Session, error) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		return nil, fmt.Errorf("no authenticated identity")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}
	return sessions.Get(userID, claims.DisplayName)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
