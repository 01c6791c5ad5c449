package chatws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fittrack/fittrack-back/internal/models"
	"github.com/fittrack/fittrack-back/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, client *Client) Message {
	t.Helper()
	select {
	case payload, ok := <-client.send:
		require.True(t, ok, "client channel closed")
		var message Message
		require.NoError(t, json.Unmarshal(payload, &message))
		return message
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestHubDeliversToSenderAndRecipient(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	alice := NewClient(hub, nil, 1)
	bob := NewClient(hub, nil, 2)
	carol := NewClient(hub, nil, 3)
	require.True(t, hub.Register(alice))
	require.True(t, hub.Register(bob))
	require.True(t, hub.Register(carol))

	hub.Broadcast(deliveryMessage(&services.ChatDelivery{
		Message: &models.ChatMessage{
			ID:             5,
			ConversationID: 9,
			SenderID:       1,
			Content:        "six tomorrow?",
			CreatedAt:      time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC),
		},
		RecipientID: 2,
	}))

	for _, client := range []*Client{alice, bob} {
		message := receive(t, client)
		assert.Equal(t, "message", message.Type)
		assert.Equal(t, int64(9), message.ConversationID)
		assert.Equal(t, "six tomorrow?", message.Content)
		assert.Equal(t, "2024-05-01T06:00:00Z", message.Timestamp)
	}

	select {
	case <-carol.send:
		t.Fatal("unrelated client received the message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubClosesClientsOnShutdown(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	client := NewClient(hub, nil, 1)
	require.True(t, hub.Register(client))
	cancel()

	select {
	case _, ok := <-client.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("client was not closed")
	}

	<-hub.done
	assert.False(t, hub.Register(NewClient(hub, nil, 2)))
}

func TestIncomingConversationIDFormats(t *testing.T) {
	for _, raw := range []string{`{"type":"message","conversationId":12}`, `{"type":"message","conversationId":"12"}`} {
		var incoming incomingMessage
		require.NoError(t, json.Unmarshal([]byte(raw), &incoming))

		id, err := incoming.conversationID()
		require.NoError(t, err)
		assert.Equal(t, int64(12), id)
	}
}
