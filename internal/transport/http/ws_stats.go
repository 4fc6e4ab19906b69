package http

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

var statsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type statsMessage struct {
	Type    string               `json:"type"`
	Payload app.AccuracySnapshot `json:"payload"`
}

// handleStatsStream upgrades the request and streams accuracy snapshots as
// the user records responses. A single writer goroutine owns the connection;
// the read loop only watches for the client going away.
func (h *Handler) handleStatsStream(w http.ResponseWriter, r *http.Request, user domain.User) {
	conn, err := statsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := h.trivia.SubscribeStats(user)
	defer cancel()

	readerGone := make(chan struct{})
	go func() {
		defer close(readerGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(statsMessage{Type: "accuracy", Payload: snapshot}); err != nil {
				h.logger.Debug("ws write error", zap.Error(err))
				return
			}
		case <-readerGone:
			return
		case <-r.Context().Done():
			return
		}
	}
}
