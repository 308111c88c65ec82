package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/walaz05/vivomejor/internal/models"
	"github.com/walaz05/vivomejor/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReplyContext is what the coach knows about the user when composing a reply.
type ReplyContext struct {
	FirstName string
	HasHabits bool
	HasGoals  bool
}

// Responder turns a user message into the coach's reply. The default is the
// scripted keyword responder; it involves no language understanding.
type Responder interface {
	Reply(text string, rctx ReplyContext) string
}

// ChatService owns the coaching conversation. User messages persist
// immediately; the coach reply is produced and persisted asynchronously so
// an in-flight reply settles regardless of what happens to the request that
// triggered it.
type ChatService struct {
	repo      ChatRepositoryI
	items     ItemRepositoryI
	responder Responder

	// thinkDelay makes the coach feel like it is composing an answer.
	thinkDelay time.Duration
}

// NewChatService creates a new instance of ChatService.
func NewChatService(repo ChatRepositoryI, items ItemRepositoryI, responder Responder) *ChatService {
	return &ChatService{
		repo:       repo,
		items:      items,
		responder:  responder,
		thinkDelay: 2 * time.Second,
	}
}

// Send persists the user's message and schedules the coach's reply.
func (s *ChatService) Send(ctx context.Context, userID primitive.ObjectID, displayName, text string) (*models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	msg := &models.ChatMessage{
		UserID: userID,
		Sender: models.SenderUser,
		Text:   text,
	}
	saved, err := s.repo.Append(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	// Detached context: the reply must settle even if the request that
	// triggered it is already gone.
	go s.respond(userID, displayName, text)

	return saved, nil
}

func (s *ChatService) respond(userID primitive.ObjectID, displayName, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rctx := ReplyContext{FirstName: firstName(displayName)}
	items, err := s.items.List(ctx, userID, "")
	if err != nil {
		logger.Log.WithError(err).Warn("Coach could not load user context")
	}
	for _, item := range items {
		switch item.Kind {
		case models.KindHabit:
			rctx.HasHabits = true
		case models.KindGoal:
			rctx.HasGoals = true
		}
	}

	reply := s.responder.Reply(text, rctx)

	if s.thinkDelay > 0 {
		select {
		case <-time.After(s.thinkDelay):
		case <-ctx.Done():
			return
		}
	}

	_, err = s.repo.Append(ctx, &models.ChatMessage{
		UserID: userID,
		Sender: models.SenderCoach,
		Text:   reply,
	})
	if err != nil {
		logger.Log.WithError(err).Error("Failed to persist coach reply")
	}
}

// History returns the conversation oldest first.
func (s *ChatService) History(ctx context.Context, userID primitive.ObjectID) ([]models.ChatMessage, error) {
	return s.repo.History(ctx, userID)
}

func firstName(displayName string) string {
	fields := strings.Fields(displayName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
