package routes

import (
	"github.com/brendanx22/homeswift-backend/internal/handlers"
	"github.com/brendanx22/homeswift-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(r gin.IRouter) {
	r.POST("/register", handlers.Register)
	r.POST("/login", handlers.Login)
	r.GET("/me", middleware.AuthMiddleware(), handlers.Me)
}
