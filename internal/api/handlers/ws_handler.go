package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/codewithwan/erecruitment/internal/logger"
	"github.com/codewithwan/erecruitment/internal/services"
	"github.com/codewithwan/erecruitment/internal/utils"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// EventStream is satisfied by *events.Bus.
type EventStream interface {
	Subscribe(ctx context.Context, userID string) (<-chan []byte, func() error, error)
}

type WSHandler struct {
	sessions services.SessionService
	stream   EventStream
	log      *logrus.Entry
	upgrader websocket.Upgrader
}

// NewWSHandler accepts any origin when origins is empty.
func NewWSHandler(sessions services.SessionService, stream EventStream, origins []string, l logrus.FieldLogger) *WSHandler {
	allowed := map[string]struct{}{}
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed[o] = struct{}{}
		}
	}

	return &WSHandler{
		sessions: sessions,
		stream:   stream,
		log:      logger.Component(l, "ws"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				_, ok := allowed[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

type wsClientMsg struct {
	Type string `json:"type"` // ping | end_session
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) write(messageType int, b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteMessage(messageType, b)
}

func (w *wsConn) writeText(b []byte) error { return w.write(websocket.TextMessage, b) }

// Events streams the caller's wizard UI events (banners, scroll, open url).
func (h *WSHandler) Events(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	token, ok := requireToken(c)
	if !ok {
		return
	}

	// events are only produced by an open page
	if _, err := h.sessions.Open(c.Request.Context(), userID, token); err != nil {
		writeError(c, err)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// subscribe before upgrading so a redis failure is still a plain HTTP error
	events, closeSub, err := h.stream.Subscribe(ctx, userID)
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, "WSHandler.Events", "event stream unavailable", err))
		return
	}
	defer closeSub()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	log := h.log.WithField("user_id", userID)
	log.Debug("event stream opened")

	wc := &wsConn{c: conn}

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))

			var msg wsClientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"invalid json"}`))
				continue
			}

			switch msg.Type {
			case "ping":
				_ = wc.writeText([]byte(`{"type":"pong"}`))
			case "end_session":
				h.sessions.End(userID)
				_ = wc.writeText([]byte(`{"type":"session_ended"}`))
				return
			default:
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"unknown message type"}`))
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := wc.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case b, ok := <-events:
			if !ok {
				return
			}
			// forward as-is (payload is the JSON event)
			if err := wc.writeText(b); err != nil {
				log.WithError(err).Debug("event not delivered")
				return
			}
		}
	}
}
