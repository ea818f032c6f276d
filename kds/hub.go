// Package kds menyiarkan pesanan masuk ke dashboard kantin lewat websocket.
package kds

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/ekantin/events"
	"github.com/yeremiapane/ekantin/utils"
)

const writeWait = 10 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// client membungkus satu koneksi. gorilla/websocket hanya mengizinkan satu
// penulis bersamaan, jadi setiap tulis dikunci per koneksi.
type client struct {
	conn     *websocket.Conn
	kantinID string
	mu       sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub menampung koneksi dashboard per kantin.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// RegisterClient menambahkan koneksi milik kantin.
func (h *Hub) RegisterClient(conn *websocket.Conn, kantinID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = &client{conn: conn, kantinID: kantinID}
}

// UnregisterClient melepas dan menutup koneksi.
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		conn.Close()
	}
}

// ClientCount mengembalikan jumlah koneksi milik kantin.
func (h *Hub) ClientCount(kantinID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, c := range h.clients {
		if c.kantinID == kantinID {
			n++
		}
	}
	return n
}

// PublishOrderEvent mengirim event hanya ke dashboard kantin pemilik pesanan.
func (h *Hub) PublishOrderEvent(_ context.Context, ev events.OrderEvent) error {
	h.SendToKantin(ev.KantinID, Message{Event: ev.Type, Data: ev})
	return nil
}

// SendToKantin mengirim pesan ke semua koneksi satu kantin. Koneksi yang
// gagal ditulis dilepas.
func (h *Hub) SendToKantin(kantinID string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0)
	for _, c := range h.clients {
		if c.kantinID == kantinID {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	utils.InfoLogger.Debugf("Broadcasting %s to %d clients of %s", msg.Event, len(targets), kantinID)

	for _, c := range targets {
		if err := c.write(data); err != nil {
			utils.ErrorLogger.Errorf("Error sending message to client: %v", err)
			h.UnregisterClient(c.conn)
		}
	}
}

// Ping mengirim control frame ping ke satu koneksi yang terdaftar.
func (h *Hub) Ping(conn *websocket.Conn) error {
	h.mu.RLock()
	c, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		return websocket.ErrCloseSent
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}
