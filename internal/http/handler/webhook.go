package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"lewis.chat/gateway/common/logger"
	"lewis.chat/gateway/internal/dedupe"
	"lewis.chat/gateway/internal/http/dto"
	"lewis.chat/gateway/internal/service"
)

type WebhookHandler struct {
	messages service.MessageService
	deduper  dedupe.Deduper
}

func NewWebhookHandler(messages service.MessageService, deduper dedupe.Deduper) *WebhookHandler {
	return &WebhookHandler{messages: messages, deduper: deduper}
}

// HandleInbound receives the carrier's form-encoded webhook for an inbound
// message, runs the round trip, and acknowledges with the JSON envelope.
// Validation failures are 400, admission denials 429, infra failures 500;
// everything else (including degraded replies) is a 200.
func (h *WebhookHandler) HandleInbound(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.InboundWebhook
	if err := c.ShouldBind(&req); err != nil {
		slog.WarnContext(ctx, "malformed webhook payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "malformed payload"})
		return
	}

	slog.InfoContext(ctx, "inbound webhook received",
		"from", req.From,
		"message_sid", req.MessageSID,
		"num_media", req.NumMedia,
		"body", logger.Truncate(req.Body, 120))

	// Carriers redeliver webhooks on slow acknowledgments; a SID seen
	// recently was already processed and is acknowledged without rerunning
	// the pipeline.
	if req.MessageSID != "" && h.deduper.Seen(ctx, req.MessageSID) {
		slog.InfoContext(ctx, "duplicate webhook delivery ignored", "message_sid", req.MessageSID)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "duplicate delivery ignored"})
		return
	}

	_, err := h.messages.HandleInbound(ctx, service.InboundMessage{
		From:       req.From,
		To:         req.To,
		Body:       req.Body,
		MessageSID: req.MessageSID,
		Media:      req.Media(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		case errors.Is(err, service.ErrRateLimited):
			// 429 and 500 acknowledgments invite a carrier retry, so the
			// dedupe mark must not outlive them: a marked SID would turn
			// the retry into a silently dropped message.
			h.release(ctx, req.MessageSID)
			c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "rate limit exceeded, slow down"})
		default:
			h.release(ctx, req.MessageSID)
			slog.ErrorContext(ctx, "inbound processing failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to process message"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "message processed"})
}

func (h *WebhookHandler) release(ctx context.Context, sid string) {
	if sid != "" {
		h.deduper.Forget(ctx, sid)
	}
}
