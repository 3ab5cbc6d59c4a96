// Package debugstream broadcasts tile visibility toggles to connected
// viewers over a websocket, for a live debug view of the traversal core's
// decisions. It implements renderer.VisibilityListener.
package debugstream

import (
	"sync"

	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// Event is the JSON message sent to every connected viewer when a tile's
// visibility or active state changes.
type Event struct {
	TileID  uint64 `json:"tileId"`
	Kind    string `json:"kind"` // "visible" or "active"
	Enabled bool   `json:"enabled"`
}

// Broadcaster fans toggle events out to every connected viewer. The zero
// value is not usable; construct with New.
type Broadcaster struct {
	mu      sync.RWMutex
	viewers map[*websocket.Conn]chan Event
}

// New builds an empty Broadcaster.
func New() *Broadcaster {
	return &Broadcaster{
		viewers: make(map[*websocket.Conn]chan Event),
	}
}

// Server returns a websocket.Server whose Handler registers the connection
// as a viewer for the lifetime of the connection.
func (b *Broadcaster) Server() websocket.Server {
	return websocket.Server{
		Handler: func(conn *websocket.Conn) {
			defer conn.Close()
			b.serve(conn)
		},
	}
}

func (b *Broadcaster) serve(conn *websocket.Conn) {
	events := make(chan Event, 64)

	b.mu.Lock()
	b.viewers[conn] = events
	b.mu.Unlock()

	logs.Info("debug stream viewer connected")

	defer func() {
		b.mu.Lock()
		delete(b.viewers, conn)
		b.mu.Unlock()
		logs.Info("debug stream viewer disconnected")
	}()

	for event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			logs.Warn(errors.New("encoding debug stream event failed").Wrap(err))
			continue
		}

		if _, err := conn.Write(data); err != nil {
			return
		}
	}
}

// TileVisibilityChanged implements renderer.VisibilityListener.
func (b *Broadcaster) TileVisibilityChanged(tileID uint64, active bool) {
	b.publish(Event{TileID: tileID, Kind: "visible", Enabled: active})
}

// TileActiveChanged implements renderer.VisibilityListener.
func (b *Broadcaster) TileActiveChanged(tileID uint64, visible bool) {
	b.publish(Event{TileID: tileID, Kind: "active", Enabled: visible})
}

func (b *Broadcaster) publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, events := range b.viewers {
		select {
		case events <- event:
		default:
			// A slow viewer must never stall the frame loop; drop the
			// event for that viewer instead.
		}
	}
}

// ViewerCount reports how many viewers are currently connected.
func (b *Broadcaster) ViewerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.viewers)
}
