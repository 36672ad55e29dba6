package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cheng762/stolen-report/service/board"
	"github.com/cheng762/stolen-report/service/leaderboard"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 8
)

// Message 推送给浏览器的榜单更新
type Message struct {
	Type    string              `json:"type"`
	BuiltAt time.Time           `json:"builtAt"`
	Records int                 `json:"records"`
	Summary leaderboard.Summary `json:"summary"`
	ByValue []leaderboard.Entry `json:"byValue"`
	ByCount []leaderboard.Entry `json:"byCount"`
}

func NewMessage(snap *board.Snapshot) Message {
	return Message{
		Type:    "views",
		BuiltAt: snap.BuiltAt,
		Records: len(snap.Records),
		Summary: snap.Views.Summary,
		ByValue: snap.Views.ByValue,
		ByCount: snap.Views.ByCount,
	}
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub 每次榜单重算后推送给所有连接；发送队列满的慢客户端直接断开
type Hub struct {
	mu       sync.Mutex
	clients  map[string]*client
	upgrader websocket.Upgrader
	current  func() *board.Snapshot
	log      *slog.Logger
}

func NewHub(current func() *board.Snapshot, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:  make(map[string]*client),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		current:  current,
		log:      log.With("component", "live"),
	}
}

// Broadcast 可以直接注册为 board.OnRebuild 回调，不会阻塞
func (h *Hub) Broadcast(snap *board.Snapshot) {
	msg, err := json.Marshal(NewMessage(snap))
	if err != nil {
		h.log.Error("序列化榜单失败", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warn("客户端处理过慢，断开连接", "client", id)
			h.removeLocked(id)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Handler 建立 websocket 连接，连接后先推送一次当前榜单
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("websocket 升级失败", "err", err)
			return
		}
		c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}

		// 读取当前榜单和注册要在同一把锁内，否则中间发生的重算会漏推
		h.mu.Lock()
		if h.current != nil {
			if snap := h.current(); snap != nil {
				if msg, err := json.Marshal(NewMessage(snap)); err == nil {
					c.send <- msg
				}
			}
		}
		h.clients[c.id] = c
		h.mu.Unlock()
		h.log.Debug("客户端已连接", "client", c.id)

		go h.writeLoop(c)
		go h.readLoop(c)
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(c.id)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c.id)
				return
			}
		}
	}
}

// readLoop 只用来感知断开和处理 pong
func (h *Hub) readLoop(c *client) {
	defer h.remove(c.id)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(id)
}

func (h *Hub) removeLocked(id string) {
	c, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	close(c.send)
	h.log.Debug("客户端已断开", "client", id)
}

// Close 断开所有客户端
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id := range h.clients {
		h.removeLocked(id)
	}
}
