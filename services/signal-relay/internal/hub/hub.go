package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/muhammadchandra19/stockstream/pkg/logger"
)

// Event names sent to viewers.
const (
	EventStockUpdate = "stock-update"
	EventTradeSignal = "trade-signal"
)

// Envelope is the frame written to every viewer.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Options configures the hub and its clients.
type Options struct {
	SendBuffer     int
	WriteWait      time.Duration
	PongWait       time.Duration
	AllowedOrigins []string
}

// DefaultOptions returns the relay defaults.
func DefaultOptions() Options {
	return Options{
		SendBuffer: 256,
		WriteWait:  2 * time.Second,
		PongWait:   60 * time.Second,
	}
}

// Hub fans frames out to connected viewers. A viewer that cannot keep up
// with the broadcast rate is disconnected.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	clients  map[*Client]struct{}
	count    atomic.Int64
	running  atomic.Bool
	upgrader websocket.Upgrader

	options Options
	logger  logger.Interface
}

// New creates a hub. Call Run before serving connections.
func New(log logger.Interface, options Options) *Hub {
	h := &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, options.SendBuffer),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		options:    options,
		logger:     log,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.options.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(h.options.AllowedOrigins, r.Header.Get("Origin"))
}

// Run owns the client set until ctx is cancelled. It must be called once.
func (h *Hub) Run(ctx context.Context) {
	h.running.Store(true)
	defer func() {
		h.running.Store(false)
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.count.Store(int64(len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}

		case frame := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- frame:
				default:
					h.logger.Warn("dropping slow client", logger.NewField("remote", client.remote))
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.count.Store(int64(len(h.clients)))
}

// Broadcast queues data for every viewer under the given event name. data
// must be a JSON document.
func (h *Hub) Broadcast(ctx context.Context, event string, data []byte) error {
	if !json.Valid(data) {
		return errors.NewErrorDetails("relay payload is not valid JSON", string(errors.GeneralBadRequestError), "data")
	}

	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return errors.TracerFromError(err)
	}

	select {
	case <-h.done:
		return errors.NewTracer("websocket hub is not running")
	default:
	}

	select {
	case h.broadcast <- frame:
		return nil
	case <-h.done:
		return errors.NewTracer("websocket hub is not running")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Clients returns the number of connected viewers.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// Check reports whether the hub loop is running.
func (h *Hub) Check(_ context.Context) error {
	if !h.running.Load() {
		return errors.NewTracer("websocket hub is not running")
	}
	return nil
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error(err, logger.NewField("action", "upgrade_websocket"))
		return
	}

	client := newClient(h, conn, r.RemoteAddr)
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	case <-r.Context().Done():
		_ = conn.Close()
		return
	}

	h.logger.Debug("viewer connected", logger.NewField("remote", client.remote))

	go client.writePump()
	go client.readPump()
}
