package httpinterface

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type eventStreamHandler struct {
	stream ports.EventStream
}

// serveEvents streams the events of the topics listed in the comma separated
// topics query param, or of all topics if empty, over a websocket.
func (h *eventStreamHandler) serveEvents(w http.ResponseWriter, r *http.Request) {
	topics := make([]string, 0)
	if param := r.URL.Query().Get("topics"); param != "" {
		for _, topic := range strings.Split(param, ",") {
			if _, ok := domain.TopicFromString(topic); !ok {
				writeError(w, http.StatusBadRequest, ErrInvalidBody)
				return
			}
			topics = append(topics, topic)
		}
	}

	// Listen before upgrading so that the client doesn't miss events
	// published right after the handshake.
	messages, stop := h.stream.Listen(topics...)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		stop()
		log.WithError(err).Debug("failed to upgrade event stream connection")
		return
	}
	id := uuid.New().String()
	log.Debugf("event stream client %s connected", id)

	defer func() {
		stop()
		conn.Close()
		log.Debugf("event stream client %s disconnected", id)
	}()

	// Read pump, only needed to process control frames and detect when the
	// client goes away.
	done := make(chan struct{})
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case msg, ok := <-messages:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(
				websocket.TextMessage, []byte(msg.Payload),
			); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
