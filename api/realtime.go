package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talari-hunar/boxoffice/internal/hub"
)

// RealtimeHandler streams state-change envelopes to live viewers over
// Server-Sent Events. Clients reconnect with backoff and re-fetch full state;
// the stream itself is best effort.
type RealtimeHandler struct {
	hub *hub.Hub
}

func NewRealtimeHandler(h *hub.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: h}
}

func (h *RealtimeHandler) Register(router *gin.RouterGroup) {
	router.GET("/realtime", h.stream)
}

func (h *RealtimeHandler) stream(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache, no-transform")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	client := h.hub.Register()
	defer h.hub.Unregister(client)

	ctx := c.Request.Context()
	for {
		select {
		case payload, open := <-client.C:
			if !open {
				// dropped by the hub for falling behind
				return
			}
			if _, err := c.Writer.Write([]byte("data: ")); err != nil {
				return
			}
			if _, err := c.Writer.Write(payload); err != nil {
				return
			}
			if _, err := c.Writer.Write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}
