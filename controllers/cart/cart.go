package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jporrasr97/tienda-api/cart"
	"github.com/jporrasr97/tienda-api/models"
)

type AddToCartInput struct {
	Quantity int `json:"quantity"`
}

func productIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return 0, false
	}
	return uint(id), true
}

func fetchProduct(c *gin.Context, db *gorm.DB, id uint) (models.Product, bool) {
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product does not exist"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
		}
		return models.Product{}, false
	}
	return product, true
}

func respondCart(c *gin.Context, ct *cart.Cart, clamped bool) {
	resp := gin.H{
		"lines":       ct.Lines,
		"total":       ct.Total(),
		"total_items": ct.TotalItems(),
	}
	if clamped {
		resp["warning"] = "Requested quantity exceeds available stock; it was reduced"
	}
	c.JSON(http.StatusOK, resp)
}

func saveCart(c *gin.Context, session sessions.Session, ct *cart.Cart) bool {
	if err := ct.Save(session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return false
	}
	return true
}

// GET /cart
func GetCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		ct := cart.FromSession(sessions.Default(c))
		respondCart(c, ct, false)
	}
}

// POST /cart/add/:product_id
// Body may carry {"quantity": n} as the delta; it defaults to 1.
// A negative delta that empties the line removes it.
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := productIDParam(c)
		if !ok {
			return
		}

		input := AddToCartInput{Quantity: 1}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&input); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
				return
			}
			if input.Quantity == 0 {
				input.Quantity = 1
			}
		}

		product, ok := fetchProduct(c, db, id)
		if !ok {
			return
		}

		session := sessions.Default(c)
		ct := cart.FromSession(session)
		clamped := ct.Add(product, input.Quantity)
		if !saveCart(c, session, ct) {
			return
		}
		respondCart(c, ct, clamped)
	}
}

// POST /cart/increment/:product_id
func IncrementCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := productIDParam(c)
		if !ok {
			return
		}
		product, ok := fetchProduct(c, db, id)
		if !ok {
			return
		}

		session := sessions.Default(c)
		ct := cart.FromSession(session)
		clamped := ct.Increment(product)
		if !saveCart(c, session, ct) {
			return
		}
		respondCart(c, ct, clamped)
	}
}

// POST /cart/decrement/:product_id
// Never drops below quantity 1; use DELETE to remove the line.
func DecrementCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := productIDParam(c)
		if !ok {
			return
		}

		session := sessions.Default(c)
		ct := cart.FromSession(session)
		ct.Decrement(id)
		if !saveCart(c, session, ct) {
			return
		}
		respondCart(c, ct, false)
	}
}

// DELETE /cart/:product_id
func RemoveCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := productIDParam(c)
		if !ok {
			return
		}

		session := sessions.Default(c)
		ct := cart.FromSession(session)
		ct.Remove(id)
		if !saveCart(c, session, ct) {
			return
		}
		respondCart(c, ct, false)
	}
}

// DELETE /cart
func ClearCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		ct := cart.FromSession(session)
		ct.Clear()
		if !saveCart(c, session, ct) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
