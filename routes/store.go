package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/jporrasr97/tienda-api/controllers/cart"
	orderControllers "github.com/jporrasr97/tienda-api/controllers/order"
	productControllers "github.com/jporrasr97/tienda-api/controllers/product"
	"github.com/jporrasr97/tienda-api/mailer"
	"github.com/jporrasr97/tienda-api/middleware"
)

// SetupStoreRoutes registers the public storefront: catalog browsing,
// the session cart and checkout. Everything here works for guests; an
// optional JWT attaches the shopper's identity to the checkout.
func SetupStoreRoutes(r *gin.Engine, db *gorm.DB, m mailer.Mailer) {
	r.GET("/products", productControllers.GetProducts(db))
	r.GET("/products/:id", productControllers.GetProductByID(db))
	r.GET("/categories", productControllers.GetAllCategories(db))
	r.GET("/categories/:id", productControllers.GetCategoryByID(db))

	cartGroup := r.Group("/cart")
	{
		cartGroup.GET("", cartControllers.GetCart())
		cartGroup.POST("/add/:product_id", cartControllers.AddToCart(db))
		cartGroup.POST("/increment/:product_id", cartControllers.IncrementCartItem(db))
		cartGroup.POST("/decrement/:product_id", cartControllers.DecrementCartItem())
		cartGroup.DELETE("/:product_id", cartControllers.RemoveCartItem())
		cartGroup.DELETE("", cartControllers.ClearCart())
	}

	r.POST("/checkout", middleware.OptionalToken, orderControllers.CheckoutHandler(db, m))
}
