package router

import (
	"github.com/gin-gonic/gin"

	"lewis.chat/gateway/internal/dedupe"
	"lewis.chat/gateway/internal/http/handler"
	"lewis.chat/gateway/internal/service"
)

func SetupRoutes(router *gin.Engine, services *service.Services, deduper dedupe.Deduper) {
	healthHandler := handler.NewHealthHandler()
	router.GET("/health", healthHandler.Check)

	webhookHandler := handler.NewWebhookHandler(services.Messages(), deduper)
	router.POST("/webhook/sms", webhookHandler.HandleInbound)

	v1 := router.Group("/api/v1")
	{
		messageHandler := handler.NewMessageHandler(services.Messages())
		v1.POST("/messages", messageHandler.Send)
		v1.GET("/messages/:sid/status", messageHandler.Status)

		conversationHandler := handler.NewConversationHandler(services.Conversations())
		v1.GET("/conversations", conversationHandler.List)
		v1.GET("/conversations/:phone", conversationHandler.History)

		accountHandler := handler.NewAccountHandler(services.Gateway())
		v1.GET("/account/balance", accountHandler.Balance)
	}
}
