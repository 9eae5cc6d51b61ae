package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/jporrasr97/tienda-api/controllers/order"
	userControllers "github.com/jporrasr97/tienda-api/controllers/user"
	"github.com/jporrasr97/tienda-api/middleware"
)

// SetupUserRoutes registers all /user/* endpoints. Requires JWT.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		userGroup.GET("", userControllers.GetUser(db))
		userGroup.PUT("", userControllers.UpdateUser(db))
		userGroup.GET("/orders", orderControllers.GetUserOrdersHandler(db))
	}
}
