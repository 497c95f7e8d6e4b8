package webhook

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MichaelAmon/was-project/internal/engine"
)

const serviceName = "whatsapp-attendance-bot"

type Handler struct {
	engine      *engine.Engine
	deduper     *Deduper
	verifyToken string
	logger      *zap.Logger
}

func NewHandler(eng *engine.Engine, deduper *Deduper, verifyToken string, logger *zap.Logger) *Handler {
	return &Handler{
		engine:      eng,
		deduper:     deduper,
		verifyToken: verifyToken,
		logger:      logger.Named("webhook"),
	}
}

// Verify answers Meta's subscription handshake.
func (h *Handler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.Status(http.StatusForbidden)
}

// Receive handles one webhook delivery. Well-formed deliveries are always
// acknowledged with 200 whatever happens inside, so the platform does not
// pile up retries; processing failures surface to the user as replies.
func (h *Handler) Receive(c *gin.Context) {
	var payload Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	messages := payload.messages()
	if len(messages) == 0 {
		c.Status(http.StatusNotFound)
		return
	}

	ctx := c.Request.Context()
	for _, msg := range messages {
		if h.deduper != nil && h.deduper.Seen(ctx, msg.ID) {
			h.logger.Debug("dropping redelivered message", zap.String("message_id", msg.ID))
			continue
		}

		ev, ok := toInboundEvent(msg)
		if !ok {
			continue
		}
		h.engine.HandleInbound(ctx, ev)
	}

	c.Status(http.StatusOK)
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Root mirrors the original deployment's plain liveness text.
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "App is running!")
}

func toInboundEvent(msg Message) (engine.InboundEvent, bool) {
	if msg.From == "" {
		return engine.InboundEvent{}, false
	}

	ev := engine.InboundEvent{
		// Meta sends bare digits; the roster stores canonical +-prefixed.
		From: "+" + msg.From,
		Kind: engine.KindOther,
	}

	switch msg.Type {
	case "text":
		if msg.Text == nil {
			return engine.InboundEvent{}, false
		}
		ev.Kind = engine.KindText
		ev.Text = msg.Text.Body
	case "location":
		if msg.Location == nil {
			return engine.InboundEvent{}, false
		}
		ev.Kind = engine.KindLocation
		ev.Latitude = msg.Location.Latitude
		ev.Longitude = msg.Location.Longitude
	}

	return ev, true
}
