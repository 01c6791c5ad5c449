package services

import (
	"context"
	"testing"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryConversations struct {
	created []*models.Conversation
}

func (m *memoryConversations) CreateOrGet(_ context.Context, first int64, second int64) (*models.Conversation, error) {
	if second < first {
		first, second = second, first
	}
	for _, c := range m.created {
		if c.UserAID == first && c.UserBID == second {
			return c, nil
		}
	}
	c := &models.Conversation{ID: int64(len(m.created) + 1), UserAID: first, UserBID: second}
	m.created = append(m.created, c)
	return c, nil
}

func (m *memoryConversations) GetByIDForParticipant(_ context.Context, id int64, participant int64) (*models.Conversation, error) {
	for _, c := range m.created {
		if c.ID == id && (c.UserAID == participant || c.UserBID == participant) {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryConversations) ListForParticipant(context.Context, int64) ([]models.ConversationSummary, error) {
	return []models.ConversationSummary{}, nil
}

func TestCreateConversationRequiresActiveBuddy(t *testing.T) {
	prefs := newStubPreferenceStore()
	prefs.prefs[5] = &models.BuddyPreference{UserID: 5, IsActive: true}
	prefs.prefs[6] = &models.BuddyPreference{UserID: 6, IsActive: false}
	conversations := &memoryConversations{}
	service := NewChatService(nil, conversations, prefs, nil)
	ctx := context.Background()

	_, err := service.CreateConversation(ctx, 9, 6)
	assert.ErrorIs(t, err, ErrBuddyNotFound)

	_, err = service.CreateConversation(ctx, 9, 77)
	assert.ErrorIs(t, err, ErrBuddyNotFound)

	_, err = service.CreateConversation(ctx, 9, 9)
	assert.ErrorIs(t, err, ErrInvalidInput)

	conversation, err := service.CreateConversation(ctx, 9, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), conversation.UserAID)
	assert.Equal(t, int64(9), conversation.UserBID)

	again, err := service.CreateConversation(ctx, 9, 5)
	require.NoError(t, err)
	assert.Equal(t, conversation.ID, again.ID)
}

func TestSendMessageRejectsOutsiders(t *testing.T) {
	conversations := &memoryConversations{}
	_, err := conversations.CreateOrGet(context.Background(), 1, 2)
	require.NoError(t, err)
	service := NewChatService(nil, conversations, newStubPreferenceStore(), nil)

	_, err = service.SendMessage(context.Background(), 3, 1, "hello")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = service.SendMessage(context.Background(), 1, 1, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListMessagesValidatesPaging(t *testing.T) {
	service := NewChatService(nil, &memoryConversations{}, newStubPreferenceStore(), nil)

	_, _, err := service.ListMessages(context.Background(), 1, 1, 0, 20)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = service.ListMessages(context.Background(), 1, 1, 1, 20)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
