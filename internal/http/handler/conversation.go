package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lewis.chat/gateway/internal/http/dto"
	"lewis.chat/gateway/internal/service"
)

type ConversationHandler struct {
	conversations service.ConversationService
}

func NewConversationHandler(conversations service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// List returns conversations ordered by last activity, annotated with
// message counts and the most recent message.
func (h *ConversationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	summaries, err := h.conversations.List(ctx, queryLimit(c, 20))
	if err != nil {
		slog.ErrorContext(ctx, "conversation list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": summaries})
}

// History returns a conversation and its recent messages in chronological
// order, looked up by sender address.
func (h *ConversationHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	conv, messages, err := h.conversations.History(ctx, c.Param("phone"), queryLimit(c, 50))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "conversation not found"})
		default:
			slog.ErrorContext(ctx, "history fetch failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch history"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": dto.ToConversationHistoryResponse(conv, messages)})
}

func queryLimit(c *gin.Context, fallback int32) int32 {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || limit <= 0 {
		return fallback
	}
	return int32(limit)
}
