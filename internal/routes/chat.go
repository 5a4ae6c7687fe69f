package routes

import (
	"github.com/brendanx22/homeswift-backend/internal/handlers"
	"github.com/brendanx22/homeswift-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterChatRoutes(r gin.IRouter) {
	messages := r.Group("/messages")
	messages.Use(middleware.AuthMiddleware())
	{
		messages.GET("/chats/:user_id", handlers.ListConversations)
		messages.POST("/start", handlers.StartConversation)
		messages.GET("/:chat_id", handlers.GetMessages)
		messages.POST("", middleware.ChatRateLimit(), handlers.SendMessage)
		messages.PUT("/:chat_id/read", handlers.MarkMessagesRead)
	}
}
