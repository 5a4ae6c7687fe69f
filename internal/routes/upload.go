package routes

import (
	"github.com/brendanx22/homeswift-backend/internal/handlers"
	"github.com/brendanx22/homeswift-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterUploadRoutes(r gin.IRouter) {
	upload := r.Group("/upload")
	upload.Use(middleware.AuthMiddleware())
	{
		upload.POST("/property-image", middleware.LandlordOnly(), handlers.UploadPropertyImage)
		upload.POST("/avatar", handlers.UploadAvatar)
	}
}
