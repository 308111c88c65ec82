package handlers

import (
	"context"
	"net/http"

	"github.com/walaz05/vivomejor/internal/mirror"
	"github.com/walaz05/vivomejor/internal/models"
	"github.com/walaz05/vivomejor/internal/notify"
	"github.com/walaz05/vivomejor/internal/repository"
	"github.com/walaz05/vivomejor/internal/session"
	jwtutil "github.com/walaz05/vivomejor/pkg/jwt"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveHandler streams live collection mirrors over WebSocket: the client
// subscribes to one collection and receives the full owner-filtered snapshot
// on every remote change. Closing the socket is the unsubscribe.
type LiveHandler struct {
	JWTSecret string
	Sessions  *session.Manager

	Items    *repository.ItemRepository
	Savings  *repository.SavingsRepository
	Schedule *repository.ScheduleRepository
	Notes    *repository.NoteRepository
	Chats    *repository.ChatRepository
}

// NewLiveHandler creates a new instance of LiveHandler.
func NewLiveHandler(jwtSecret string, sessions *session.Manager, items *repository.ItemRepository, savings *repository.SavingsRepository, schedule *repository.ScheduleRepository, notes *repository.NoteRepository, chats *repository.ChatRepository) *LiveHandler {
	return &LiveHandler{
		JWTSecret: jwtSecret,
		Sessions:  sessions,
		Items:     items,
		Savings:   savings,
		Schedule:  schedule,
		Notes:     notes,
		Chats:     chats,
	}
}

// LiveFeedHandler upgrades the connection and serves the requested
// collection. Browsers cannot set headers on WebSocket requests, so the
// token travels as a query parameter, same as the identity provider's web
// client expects.
func (h *LiveHandler) LiveFeedHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusUnauthorized)
		return
	}

	sess, err := h.Sessions.Get(userID, claims.DisplayName)
	if err != nil {
		logrus.WithError(err).Error("Failed to start session for live feed")
		http.Error(w, "Failed to start session", http.StatusInternalServerError)
		return
	}

	collection := mux.Vars(r)["collection"]

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	log := logrus.WithFields(logrus.Fields{
		"user_id":    claims.UserID,
		"collection": collection,
	})
	log.Info("Live feed connected")

	switch collection {
	case "user_items":
		serveMirror(r.Context(), conn, sess, mirror.New(
			func(ctx context.Context) ([]models.Item, error) { return h.Items.List(ctx, userID, "") },
			func(ctx context.Context) (<-chan struct{}, <-chan error, error) { return h.Items.Watch(ctx, userID) },
			func(a, b models.Item) bool { return a.CreatedAt.Before(b.CreatedAt) },
		))
	case "savings":
		serveMirror(r.Context(), conn, sess, mirror.New(
			func(ctx context.Context) ([]models.SavingsGoal, error) { return h.Savings.List(ctx, userID) },
			func(ctx context.Context) (<-chan struct{}, <-chan error, error) { return h.Savings.Watch(ctx, userID) },
			func(a, b models.SavingsGoal) bool { return a.CreatedAt.Before(b.CreatedAt) },
		))
	case "schedule":
		serveMirror(r.Context(), conn, sess, mirror.New(
			func(ctx context.Context) ([]models.ScheduleSlot, error) { return h.Schedule.List(ctx, userID) },
			func(ctx context.Context) (<-chan struct{}, <-chan error, error) { return h.Schedule.Watch(ctx, userID) },
			func(a, b models.ScheduleSlot) bool { return a.Hour < b.Hour },
		))
	case "notes":
		serveMirror(r.Context(), conn, sess, mirror.New(
			func(ctx context.Context) ([]models.Note, error) { return h.Notes.List(ctx, userID) },
			func(ctx context.Context) (<-chan struct{}, <-chan error, error) { return h.Notes.Watch(ctx, userID) },
			func(a, b models.Note) bool { return a.CreatedAt.After(b.CreatedAt) },
		))
	case "chats":
		serveMirror(r.Context(), conn, sess, mirror.New(
			func(ctx context.Context) ([]models.ChatMessage, error) { return h.Chats.History(ctx, userID) },
			func(ctx context.Context) (<-chan struct{}, <-chan error, error) { return h.Chats.Watch(ctx, userID) },
			func(a, b models.ChatMessage) bool { return a.CreatedAt.Before(b.CreatedAt) },
		))
	default:
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown collection"))
		return
	}

	log.Info("Live feed disconnected")
}

// serveMirror runs one mirror for the lifetime of the connection: the
// current snapshot immediately, then every new snapshot as it lands. A
// terminal stream error (permission denial included) closes the feed once
// and is not retried here.
func serveMirror[T any](ctx context.Context, conn *websocket.Conn, sess *session.Session, m *mirror.Mirror[T]) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := m.Start(runCtx); err != nil {
		sess.Notifications.Enqueue("Error cargando datos (permisos)", notify.KindError)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscribe failed"))
		return
	}
	defer m.Stop()

	// The read loop exists only to notice the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// The initial snapshot is already buffered on Updates by Start, so the
	// range delivers it as the first frame. No separate send: that would
	// show the client the same snapshot twice.
	for snap := range m.Updates() {
		if err := conn.WriteJSON(snap); err != nil {
			return
		}
	}

	if err := m.Err(); err != nil && err != mirror.ErrStopped {
		sess.Notifications.Enqueue("Error cargando datos (permisos)", notify.KindError)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "stream error"))
	}
}
