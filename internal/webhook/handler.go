package webhook

import (
	"net/http"

	"autodm-gateway/internal/automation"
	"autodm-gateway/internal/config"
	pkgmodels "autodm-gateway/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	Config *config.Config
	Engine *automation.Engine
	Logger *zap.Logger
}

func NewHandler(cfg *config.Config, engine *automation.Engine, logger *zap.Logger) *Handler {
	return &Handler{Config: cfg, Engine: engine, Logger: logger}
}

// VerifyWebhook answers the Meta subscription-verification handshake: echo
// the challenge when the verify token matches, 403 on a wrong token, 400 when
// mode or token is missing. Touches no persisted state.
func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || token == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	if mode == "subscribe" && token == h.Config.VerifyToken {
		h.Logger.Info("webhook verified")
		c.String(http.StatusOK, challenge)
		return
	}

	h.Logger.Warn("webhook verification failed: token mismatch")
	c.Status(http.StatusForbidden)
}

// HandleEvents ingests one webhook delivery. Recognized deliveries are always
// acknowledged with 200 EVENT_RECEIVED regardless of matching/dispatch
// outcome so the provider's retry logic is never triggered by business-logic
// misses; only an unrecognized object tag is rejected.
func (h *Handler) HandleEvents(c *gin.Context) {
	var payload pkgmodels.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.Logger.Warn("malformed webhook body", zap.Error(err))
		c.Status(http.StatusBadRequest)
		return
	}

	if payload.Object != "instagram" {
		h.Logger.Warn("unknown webhook object", zap.String("object", payload.Object))
		c.Status(http.StatusNotFound)
		return
	}

	// Entries and changes of one delivery run strictly in sequence; the
	// dispatch inside is awaited, bounded by the Graph client timeout.
	for _, event := range ExtractCommentEvents(&payload) {
		if err := h.Engine.ProcessCommentEvent(event); err != nil {
			h.Logger.Error("event processing error",
				zap.String("comment_id", event.CommentID),
				zap.Error(err))
		}
	}

	c.String(http.StatusOK, "EVENT_RECEIVED")
}
