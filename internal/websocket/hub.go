package chatws

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/fittrack/fittrack-back/internal/services"
	websocket "github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

const (
	sendBufferSize = 32
	sendTimeout    = 10 * time.Second
)

// Hub fans chat messages out to every open socket of the sender and the
// recipient. The client map is owned by the Run goroutine.
type Hub struct {
	clients    map[int64]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	log        *zap.Logger
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID int64
	send   chan []byte
}

type sender interface {
	SendMessage(ctx context.Context, userID int64, conversationID int64, content string) (*services.ChatDelivery, error)
}

type Message struct {
	Type           string `json:"type"`
	ID             int64  `json:"id,omitempty"`
	ConversationID int64  `json:"conversationId,omitempty"`
	SenderID       int64  `json:"senderId,omitempty"`
	RecipientID    int64  `json:"recipientId,omitempty"`
	Content        string `json:"content"`
	Timestamp      string `json:"timestamp"`
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 64),
		done:       make(chan struct{}),
		log:        log.Named("chat_hub"),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
}

// Run serves the hub until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for userID, set := range h.clients {
				for client := range set {
					close(client.send)
				}
				delete(h.clients, userID)
			}
			return
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			h.log.Debug("client connected", zap.Int64("user_id", client.userID))
		case client := <-h.unregister:
			h.remove(client)
		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) Broadcast(message *Message) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, exists := set[client]; exists {
		delete(set, client)
		close(client.send)
	}
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

func (h *Hub) deliver(message *Message) {
	encoded, err := json.Marshal(message)
	if err != nil {
		h.log.Error("encode chat message", zap.Error(err))
		return
	}

	h.sendToUser(message.SenderID, encoded)
	if message.RecipientID != 0 && message.RecipientID != message.SenderID {
		h.sendToUser(message.RecipientID, encoded)
	}
}

// sendToUser drops clients whose buffer is full.
func (h *Hub) sendToUser(userID int64, payload []byte) {
	set, ok := h.clients[userID]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			h.log.Warn("dropping slow chat client", zap.Int64("user_id", userID))
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

type incomingMessage struct {
	Type           string          `json:"type"`
	ConversationID json.RawMessage `json:"conversationId"`
	Content        string          `json:"content"`
}

// conversationID accepts both 12 and "12".
func (m incomingMessage) conversationID() (int64, error) {
	raw := string(m.ConversationID)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (c *Client) ReadPump(service sender) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming incomingMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			c.writeError("invalid message payload")
			continue
		}
		if incoming.Type != "message" {
			c.writeError("unsupported message type")
			continue
		}

		conversationID, err := incoming.conversationID()
		if err != nil || conversationID <= 0 {
			c.writeError("invalid conversation id")
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		delivery, err := service.SendMessage(ctx, c.userID, conversationID, incoming.Content)
		cancel()
		if err != nil {
			c.hub.log.Debug("chat message rejected",
				zap.Int64("user_id", c.userID),
				zap.Int64("conversation_id", conversationID),
				zap.Error(err),
			)
			c.writeError("failed to send message")
			continue
		}

		c.hub.Broadcast(deliveryMessage(delivery))
	}
}

func deliveryMessage(delivery *services.ChatDelivery) *Message {
	return &Message{
		Type:           "message",
		ID:             delivery.Message.ID,
		ConversationID: delivery.Message.ConversationID,
		SenderID:       delivery.Message.SenderID,
		RecipientID:    delivery.RecipientID,
		Content:        delivery.Message.Content,
		Timestamp:      services.FormatChatTimestamp(delivery.Message.CreatedAt),
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func (c *Client) writeError(message string) {
	payload, err := json.Marshal(Message{
		Type:      "error",
		Content:   message,
		Timestamp: services.FormatChatTimestamp(time.Now().UTC()),
	})
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}
