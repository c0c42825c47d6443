package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"burnai-server/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	STREAM_MESSAGE_TYPE_SNAPSHOT = "snapshot"
	STREAM_MESSAGE_TYPE_UPDATE   = "update"
	STREAM_MESSAGE_TYPE_PING     = "ping"

	streamSendBuffer = 16
	streamPingPeriod = 54 * time.Second
	streamWriteWait  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamMessage is the envelope pushed to map pages.
type StreamMessage struct {
	Type      string                  `json:"type"`
	Data      *models.HeatmapResponse `json:"data,omitempty"`
	Timestamp time.Time               `json:"timestamp"`
}

// SnapshotFunc returns the heatmap a newly connected client starts from.
type SnapshotFunc func() (*models.HeatmapResponse, error)

type streamClient struct {
	id   string
	conn *websocket.Conn
	send chan StreamMessage
	hub  *StreamHandler
}

// StreamHandler is a websocket hub. Every refresh published to it is fanned out
// to connected clients; clients that cannot keep up are dropped.
type StreamHandler struct {
	snapshot   SnapshotFunc
	clients    map[*streamClient]bool
	broadcast  chan StreamMessage
	register   chan *streamClient
	unregister chan *streamClient
	count      chan chan int
	done       chan struct{}
}

func NewStreamHandler(snapshot SnapshotFunc) *StreamHandler {
	return &StreamHandler{
		snapshot:   snapshot,
		clients:    make(map[*streamClient]bool),
		broadcast:  make(chan StreamMessage, 64),
		register:   make(chan *streamClient),
		unregister: make(chan *streamClient),
		count:      make(chan chan int),
		done:       make(chan struct{}),
	}
}

// Run handles the hub loop until ctx is done.
func (h *StreamHandler) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			log.Printf("[StreamHandler] Client %s connected (%d total)", client.id, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("[StreamHandler] Client %s disconnected", client.id)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					log.Printf("[StreamHandler] Dropping slow client %s", client.id)
					close(client.send)
					delete(h.clients, client)
				}
			}

		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

// Publish implements the refresher's Publisher. A full broadcast queue drops the update.
func (h *StreamHandler) Publish(resp *models.HeatmapResponse) {
	message := StreamMessage{Type: STREAM_MESSAGE_TYPE_UPDATE, Data: resp, Timestamp: time.Now()}
	select {
	case h.broadcast <- message:
	default:
		log.Println("[StreamHandler] Broadcast queue full, skipping update")
	}
}

// ClientCount returns the number of connected clients, or 0 once Run has stopped.
func (h *StreamHandler) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// ServeWS upgrades the request and starts the client's pumps.
func (h *StreamHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[StreamHandler] WebSocket upgrade failed: %v", err)
		return
	}

	client := &streamClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan StreamMessage, streamSendBuffer),
		hub:  h,
	}

	if h.snapshot != nil {
		if resp, err := h.snapshot(); err != nil {
			log.Printf("[StreamHandler] Snapshot for client %s failed: %v", client.id, err)
		} else {
			client.send <- StreamMessage{Type: STREAM_MESSAGE_TYPE_SNAPSHOT, Data: resp, Timestamp: time.Now()}
		}
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// writePump pumps messages from the hub to the websocket connection
func (c *streamClient) writePump() {
	ticker := time.NewTicker(streamPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				log.Printf("[StreamHandler] Error writing message to client %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := c.conn.WriteJSON(StreamMessage{Type: STREAM_MESSAGE_TYPE_PING, Timestamp: time.Now()}); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection so close frames are seen; clients send nothing else.
func (c *streamClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[StreamHandler] WebSocket error: %v", err)
			}
			return
		}
	}
}
