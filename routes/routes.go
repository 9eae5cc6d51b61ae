package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jporrasr97/tienda-api/mailer"
)

// SetupRoutes is the single entry-point that wires up the public
// storefront, auth, checkout and admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, m mailer.Mailer) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// Storefront: catalog browsing + session cart + checkout
	SetupStoreRoutes(r, db, m)

	// Authenticated user routes (JWT-protected)
	SetupUserRoutes(r, db)

	// Admin routes (JWT + admin role)
	SetupAdminRoutes(r, db)
}
