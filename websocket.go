/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/Seednode/wordchain/games/wordchain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"
)

const (
	maxMessageSize = 4096
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	sendBuffer     = 64
)

type Client struct {
	id      string
	conn    *websocket.Conn
	send    chan wordchain.Event
	limiter *rate.Limiter
}

// Gateway fans game events out to websocket clients. It implements
// wordchain.Broadcaster.
type Gateway struct {
	cfg  *Config
	game *wordchain.Game

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*Client
}

func newGateway(cfg *Config) *Gateway {
	gw := &Gateway{
		cfg:     cfg,
		clients: make(map[string]*Client),
	}

	gw.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     gw.checkOrigin,
	}

	return gw
}

func (gw *Gateway) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(gw.cfg.corsOrigins, "*") {
		return true
	}
	return slices.Contains(gw.cfg.corsOrigins, origin)
}

func (gw *Gateway) Broadcast(connIDs []string, ev wordchain.Event) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	for _, id := range connIDs {
		gw.deliverLocked(id, ev)
	}
}

func (gw *Gateway) Send(connID string, ev wordchain.Event) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	gw.deliverLocked(connID, ev)
}

// deliverLocked never blocks; a client whose buffer is full is dropped,
// and its read loop then reports the disconnect.
func (gw *Gateway) deliverLocked(connID string, ev wordchain.Event) {
	c, ok := gw.clients[connID]
	if !ok {
		return
	}

	select {
	case c.send <- ev:
	default:
		logger.Warn().Str("conn", connID).Msg("send buffer full, dropping connection")
		delete(gw.clients, connID)
		close(c.send)
	}
}

func (gw *Gateway) register(c *Client) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	gw.clients[c.id] = c
}

func (gw *Gateway) unregister(c *Client) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	if cur, ok := gw.clients[c.id]; ok && cur == c {
		delete(gw.clients, c.id)
		close(c.send)
	}
}

// closeAll disconnects every client (used on shutdown).
func (gw *Gateway) closeAll() {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	for id, c := range gw.clients {
		close(c.send)
		delete(gw.clients, id)
	}
}

func (gw *Gateway) connections() int {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	return len(gw.clients)
}

func serveWS(gw *Gateway) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := gw.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Debug().Err(err).Str("remote", realIP(r)).Msg("websocket upgrade failed")
			return
		}

		c := &Client{
			id:      uuid.NewString(),
			conn:    conn,
			send:    make(chan wordchain.Event, sendBuffer),
			limiter: rate.NewLimiter(rate.Limit(gw.cfg.rateLimit), gw.cfg.rateBurst),
		}

		gw.register(c)
		gw.Send(c.id, wordchain.NewConnectedMessage(c.id))

		logger.Debug().Str("conn", c.id).Str("remote", realIP(r)).Msg("client connected")

		go c.writePump()
		c.readPump(gw)
	}
}

func (c *Client) readPump(gw *Gateway) {
	defer func() {
		gw.unregister(c)
		gw.game.Disconnect(c.id)
		_ = c.conn.Close()

		logger.Debug().Str("conn", c.id).Msg("client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug().Err(err).Str("conn", c.id).Msg("unexpected websocket close")
			}
			return
		}

		if !c.limiter.Allow() {
			gw.Send(c.id, wordchain.NewErrorMessage(wordchain.ErrRateLimited))
			continue
		}

		in, err := wordchain.ParseIntent(data)
		if err != nil {
			gw.Send(c.id, wordchain.NewErrorMessage(err))
			continue
		}

		gw.game.Handle(c.id, in)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
