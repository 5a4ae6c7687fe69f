package routes

import (
	"github.com/brendanx22/homeswift-backend/internal/handlers"
	"github.com/brendanx22/homeswift-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterPropertyRoutes(r gin.IRouter) {
	properties := r.Group("/properties")
	{
		properties.GET("", handlers.ListProperties)
		properties.GET("/:property_id", handlers.GetProperty)

		properties.POST("", middleware.AuthMiddleware(), middleware.LandlordOnly(), handlers.CreateProperty)
		properties.PUT("/:property_id", middleware.AuthMiddleware(), middleware.LandlordOnly(), handlers.UpdateProperty)
	}
}
