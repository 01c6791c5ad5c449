package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/repository"
	"go.uber.org/zap"
)

const maxMessageLength = 2000

type conversationStore interface {
	CreateOrGet(ctx context.Context, firstUserID int64, secondUserID int64) (*models.Conversation, error)
	GetByIDForParticipant(ctx context.Context, conversationID int64, participantID int64) (*models.Conversation, error)
	ListForParticipant(ctx context.Context, participantID int64) ([]models.ConversationSummary, error)
}

type buddyLookup interface {
	GetByUserID(ctx context.Context, userID int64) (*models.BuddyPreference, error)
}

type ChatService struct {
	db            txBeginner
	conversations conversationStore
	buddies       buddyLookup
	log           *zap.Logger
}

type ChatDelivery struct {
	Conversation *models.Conversation
	Message      *models.ChatMessage
	RecipientID  int64
}

func NewChatService(
	db txBeginner,
	conversations conversationStore,
	buddies buddyLookup,
	log *zap.Logger,
) *ChatService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatService{
		db:            db,
		conversations: conversations,
		buddies:       buddies,
		log:           log.Named("chat"),
	}
}

func (s *ChatService) ListConversations(ctx context.Context, userID int64) ([]models.ConversationSummary, error) {
	return s.conversations.ListForParticipant(ctx, userID)
}

// CreateConversation opens (or returns) the chat with a buddy. The buddy must
// have an active preference, the same pool matches are drawn from.
func (s *ChatService) CreateConversation(ctx context.Context, userID int64, buddyID int64) (*models.Conversation, error) {
	if buddyID <= 0 || buddyID == userID {
		return nil, ErrInvalidInput
	}

	pref, err := s.buddies.GetByUserID(ctx, buddyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBuddyNotFound
		}
		return nil, err
	}
	if !pref.IsActive {
		return nil, ErrBuddyNotFound
	}

	return s.conversations.CreateOrGet(ctx, userID, buddyID)
}

func (s *ChatService) ListMessages(
	ctx context.Context,
	userID int64,
	conversationID int64,
	page int,
	limit int,
) ([]models.ChatMessage, int, error) {
	if conversationID <= 0 || page <= 0 || limit <= 0 {
		return nil, 0, ErrInvalidInput
	}

	if _, err := s.conversations.GetByIDForParticipant(ctx, conversationID, userID); err != nil {
		return nil, 0, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	messageRepo := repository.NewMessageRepository(tx)

	messages, total, err := messageRepo.ListByConversation(ctx, conversationID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	messageIDs := make([]int64, 0, len(messages))
	for _, message := range messages {
		messageIDs = append(messageIDs, message.ID)
	}
	if err := messageRepo.MarkRead(ctx, messageIDs, userID); err != nil {
		return nil, 0, err
	}

	for i := range messages {
		if messages[i].SenderID != userID {
			messages[i].IsRead = true
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (s *ChatService) SendMessage(
	ctx context.Context,
	userID int64,
	conversationID int64,
	content string,
) (*ChatDelivery, error) {
	trimmed := strings.TrimSpace(content)
	if conversationID <= 0 || trimmed == "" || len(trimmed) > maxMessageLength {
		return nil, ErrInvalidInput
	}

	conversation, err := s.conversations.GetByIDForParticipant(ctx, conversationID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	message, err := repository.NewMessageRepository(tx).Create(ctx, conversationID, userID, trimmed)
	if err != nil {
		return nil, err
	}
	if err := repository.NewConversationRepository(tx).Touch(ctx, conversationID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &ChatDelivery{
		Conversation: conversation,
		Message:      message,
		RecipientID:  conversation.OtherParticipant(userID),
	}, nil
}

func FormatChatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}
