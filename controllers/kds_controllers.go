package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/ekantin/kds"
	"github.com/yeremiapane/ekantin/middlewares"
	"github.com/yeremiapane/ekantin/utils"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// KDSController membuka websocket untuk dashboard pesanan kantin.
type KDSController struct {
	hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewKDSController: origins kosong atau "*" mengizinkan semua origin.
func NewKDSController(hub *kds.Hub, origins []string) *KDSController {
	allowed := map[string]bool{}
	for _, o := range origins {
		allowed[o] = true
	}
	return &KDSController{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || allowed["*"] || origin == "" || allowed[origin]
			},
		},
	}
}

// Connect -> endpoint WebSocket /ws/kantin
func (kc *KDSController) Connect(c *gin.Context) {
	kantinID := middlewares.KantinID(c)

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Errorf("Upgrade websocket gagal: %v", err)
		return
	}

	kc.hub.RegisterClient(ws, kantinID)
	defer kc.hub.UnregisterClient(ws)

	ws.SetReadLimit(512)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go kc.ping(ws, done)

	// pesan dari client diabaikan, loop hanya mendeteksi disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}

func (kc *KDSController) ping(ws *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := kc.hub.Ping(ws); err != nil {
				return
			}
		}
	}
}
