package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

const sendBufferSize = 256

// Client is one websocket session. A user may hold several.
type Client struct {
	Hub     *Hub
	Conn    *Conn
	UserID  uint
	IsAdmin bool // admins receive every order event
	Send    chan []byte
}

func NewClient(hub *Hub, conn *Conn, userID uint, isAdmin bool) *Client {
	return &Client{
		Hub:     hub,
		Conn:    conn,
		UserID:  userID,
		IsAdmin: isAdmin,
		Send:    make(chan []byte, sendBufferSize),
	}
}

// OrderEvent is pushed to the order's owner and to connected admins.
type OrderEvent struct {
	Type      string            `json:"type"`
	OrderID   uint              `json:"order_id"`
	UserID    uint              `json:"user_id"`
	Status    model.OrderStatus `json:"status"`
	IsPaid    bool              `json:"is_paid"`
	Total     decimal.Decimal   `json:"total"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type userMessage struct {
	UserID  uint
	Message []byte
}

// Hub tracks sessions by user and fans out order events.
type Hub struct {
	// UserID -> sessions
	clients map[uint][]*Client
	admins  map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *userMessage

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		admins:     make(map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *userMessage, 1024),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			if client.IsAdmin {
				h.admins[client] = true
			}
			sessions := len(h.clients[client.UserID])
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"is_admin":       client.IsAdmin,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	kept := make([]*Client, 0, len(list))
	found := false
	for _, c := range list {
		if c == client {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return
	}
	if len(kept) == 0 {
		delete(h.clients, client.UserID)
	} else {
		h.clients[client.UserID] = kept
	}
	delete(h.admins, client)
	close(client.Send)

	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"user_id":            client.UserID,
		"remaining_sessions": len(kept),
	})
}

func (h *Hub) deliver(message *userMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := make(map[*Client]bool)
	for _, c := range h.clients[message.UserID] {
		targets[c] = true
	}
	for c := range h.admins {
		targets[c] = true
	}

	for client := range targets {
		select {
		case client.Send <- message.Message:
		default:
			// slow consumer, drop the session
			go h.Unregister(client)
			logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
				"user_id": client.UserID,
			})
		}
	}
}

// NotifyOrderStatus queues an order_status event. Events are dropped when the
// queue is full or when neither the owner nor an admin is connected.
func (h *Hub) NotifyOrderStatus(order *model.Order) {
	if !h.IsUserOnline(order.UserID) && !h.adminOnline() {
		return
	}

	data, err := json.Marshal(OrderEvent{
		Type:      "order_status",
		OrderID:   order.ID,
		UserID:    order.UserID,
		Status:    order.Status,
		IsPaid:    order.IsPaid,
		Total:     order.Total(),
		UpdatedAt: order.UpdatedAt,
	})
	if err != nil {
		logger.Error("Failed to marshal order event", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return
	}

	select {
	case h.broadcast <- &userMessage{UserID: order.UserID, Message: data}:
	default:
		logger.Warn("Broadcast channel full, order event dropped", map[string]interface{}{
			"order_id": order.ID,
		})
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

func (h *Hub) adminOnline() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.admins) > 0
}
