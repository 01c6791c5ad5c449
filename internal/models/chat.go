package models

import "time"

// Conversation is a direct chat between two buddies. UserAID is always the
// smaller of the two ids.
type Conversation struct {
	ID        int64     `json:"id"`
	UserAID   int64     `json:"userAId"`
	UserBID   int64     `json:"userBId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Conversation) OtherParticipant(userID int64) int64 {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

type ChatMessage struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversationId"`
	SenderID       int64     `json:"senderId"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ConversationSummary struct {
	Conversation
	BuddyID     int64        `json:"buddyId"`
	BuddyName   string       `json:"buddyName"`
	LastMessage *ChatMessage `json:"lastMessage,omitempty"`
	UnreadCount int          `json:"unreadCount"`
}
