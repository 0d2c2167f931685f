package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"lewis.chat/gateway/internal/carrier"
	"lewis.chat/gateway/internal/http/dto"
)

type AccountHandler struct {
	gateway carrier.Gateway
}

func NewAccountHandler(gateway carrier.Gateway) *AccountHandler {
	return &AccountHandler{gateway: gateway}
}

// Balance reports the carrier account balance. Ops convenience, no state.
func (h *AccountHandler) Balance(c *gin.Context) {
	ctx := c.Request.Context()

	bal, err := h.gateway.AccountBalance(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "balance fetch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": dto.ToBalanceResponse(bal)})
}
