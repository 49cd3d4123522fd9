package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/skillprobe/skillprobe-backend/internal/config"
	ws "github.com/skillprobe/skillprobe-backend/internal/websocket"
)

const keepAliveInterval = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation. An
// empty allow-list permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) gorilla.Upgrader {
	return gorilla.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// MonitorHandler streams live proctoring events for an attempt to
// recruiter-side monitoring clients.
type MonitorHandler struct {
	rdb      *redis.Client
	upgrader gorilla.Upgrader
	log      zerolog.Logger
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(rdb *redis.Client, allowedOrigins []string, log zerolog.Logger) *MonitorHandler {
	return &MonitorHandler{
		rdb:      rdb,
		upgrader: buildUpgrader(allowedOrigins),
		log:      log.With().Str("component", "monitor_handler").Logger(),
	}
}

// MonitorAttempt godoc
// WS /ws/v1/assessments/:attempt_id/monitor
// Upgrades to WebSocket and relays the attempt's proctoring events
// (snapshots, violations) as they are published.
func (h *MonitorHandler) MonitorAttempt(c *gin.Context) {
	attemptID, ok := attemptIDParam(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	reqCtx := c.Request.Context()

	pubsub := h.rdb.Subscribe(reqCtx, config.CacheKey.AttemptMonitorChannel(attemptID))
	defer pubsub.Close()
	events := pubsub.Channel()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	// Reader goroutine: we never expect client messages, but reading is
	// required to notice a closed connection.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.log.Info().Int64("attempt_id", attemptID).Msg("monitor attached")

	for {
		select {
		case <-reqCtx.Done():
			return
		case <-done:
			return
		case msg, open := <-events:
			if !open {
				return
			}
			if err := ws.WriteRaw(conn, []byte(msg.Payload)); err != nil {
				return
			}
		case <-keepAlive.C:
			if err := ws.WriteTyped(conn, ws.PingMessage{Type: ws.EventPing}); err != nil {
				return
			}
		}
	}
}
