package routes

import (
	"github.com/brendanx22/homeswift-backend/internal/handlers"
	"github.com/brendanx22/homeswift-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterPaymentRoutes(r gin.IRouter) {
	payments := r.Group("/payments")
	payments.Use(middleware.AuthMiddleware())
	{
		payments.POST("/initialize", handlers.InitializePayment)
		payments.GET("/verify/:reference", handlers.VerifyPayment)
	}
}
