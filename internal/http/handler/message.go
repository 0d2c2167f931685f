package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"lewis.chat/gateway/internal/carrier"
	"lewis.chat/gateway/internal/http/dto"
	"lewis.chat/gateway/internal/service"
)

type MessageHandler struct {
	messages service.MessageService
}

func NewMessageHandler(messages service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send delivers a message to an arbitrary destination, outside the webhook
// round trip, and records it under the destination's conversation.
func (h *MessageHandler) Send(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing required fields: to, message"})
		return
	}

	receipt, err := h.messages.Send(ctx, req.To, req.Message, req.Media())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation), errors.Is(err, carrier.ErrInvalidAddress):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		default:
			slog.ErrorContext(ctx, "send failed", "error", err, "to", req.To)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to send message"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": dto.ToSendMessageResponse(receipt)})
}

// Status probes the carrier for the delivery state of a sent message.
func (h *MessageHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()

	report, err := h.messages.Status(ctx, c.Param("sid"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation), errors.Is(err, carrier.ErrInvalidAddress):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "unknown message sid"})
		default:
			slog.ErrorContext(ctx, "status fetch failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch message status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": dto.ToMessageStatusResponse(report)})
}
