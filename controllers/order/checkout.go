package orderControllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jporrasr97/tienda-api/cart"
	"github.com/jporrasr97/tienda-api/mailer"
	"github.com/jporrasr97/tienda-api/models"
)

// CheckoutInput carries everything the workflow needs besides the
// cart itself. UserID is nil for guest checkout, in which case
// GuestEmail must be provided.
type CheckoutInput struct {
	Address    string
	Phone      string
	GuestEmail string
	UserID     *uint
	UserEmail  string
}

// CheckoutResult reports the two-phase outcome: the order is always
// committed when err is nil, EmailSent tells whether the operator
// notification also went out.
type CheckoutResult struct {
	Order     models.Order
	EmailSent bool
}

// ValidationError aggregates every checkout violation found, so the
// shopper sees the full list at once instead of fixing fields one by
// one. Nothing is persisted when it is returned.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

const minPhoneDigits = 8

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// Checkout validates the cart against the live catalog and, if clean,
// commits order + line items + stock decrements as one transaction,
// then empties the cart and notifies the operator. A mail failure
// after commit does not roll anything back; it only flips EmailSent.
func Checkout(db *gorm.DB, m mailer.Mailer, ct *cart.Cart, in CheckoutInput) (*CheckoutResult, error) {
	var violations []string

	if ct.IsEmpty() {
		violations = append(violations, "cart is empty")
	}
	if strings.TrimSpace(in.Address) == "" {
		violations = append(violations, "shipping address is required")
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		violations = append(violations, "phone number is required")
	} else if countDigits(phone) < minPhoneDigits {
		violations = append(violations, fmt.Sprintf("phone number must contain at least %d digits", minPhoneDigits))
	}
	if in.UserID == nil && strings.TrimSpace(in.GuestEmail) == "" {
		violations = append(violations, "email is required for guest checkout")
	}

	// Advisory stock pass: report every shortage by name so the shopper
	// can adjust quantities. Add-time clamping does not bypass this,
	// stock may have moved since the line was added.
	for _, l := range ct.Lines {
		var p models.Product
		if err := db.First(&p, l.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				violations = append(violations, fmt.Sprintf("product %q is no longer available", l.Name))
				continue
			}
			return nil, err
		}
		if p.Stock < l.Quantity {
			violations = append(violations, fmt.Sprintf("insufficient stock for %s: available %d, requested %d", p.Name, p.Stock, l.Quantity))
		}
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	order := models.Order{
		Reference: generateOrderRef(),
		UserID:    in.UserID,
		Total:     ct.Total(),
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now(),
	}
	if in.UserID == nil {
		order.GuestEmail = strings.TrimSpace(in.GuestEmail)
	}
	for _, l := range ct.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			UnitPrice:   l.Price,
			Quantity:    l.Quantity,
		})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, l := range ct.Lines {
			// Conditional decrement: the stock >= quantity predicate and
			// the write are one atomic statement, which closes the race
			// between the advisory check above and the commit. Stock can
			// never go negative through this path.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", l.ProductID, l.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", l.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// A concurrent checkout won the race; report it like any
				// other shortage and roll everything back.
				var p models.Product
				if err := tx.First(&p, l.ProductID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return &ValidationError{Violations: []string{fmt.Sprintf("product %q is no longer available", l.Name)}}
					}
					return err
				}
				return &ValidationError{Violations: []string{fmt.Sprintf("insufficient stock for %s: available %d, requested %d", p.Name, p.Stock, l.Quantity)}}
			}
		}

		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	// The order is committed; from here on nothing rolls back.
	ct.Clear()

	buyerEmail := in.UserEmail
	if in.UserID == nil {
		buyerEmail = order.GuestEmail
	}

	result := &CheckoutResult{Order: order, EmailSent: true}
	subject, textBody, htmlBody := mailer.OrderMessage(order, in.Address, phone, buyerEmail)
	if err := m.Send(subject, textBody, htmlBody); err != nil {
		slog.Error("order confirmation email failed", "order_ref", order.Reference, "error", err)
		result.EmailSent = false
	}

	return result, nil
}

// generateOrderRef builds a unique human-readable order reference,
// e.g. 20250908130500-<uuid4>.
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

type checkoutRequest struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"` // guest contact, ignored when authenticated
}

// POST /checkout
// Works for both authenticated shoppers and guests; the cart lives in
// the session either way.
func CheckoutHandler(db *gorm.DB, m mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		session := sessions.Default(c)
		ct := cart.FromSession(session)

		in := CheckoutInput{
			Address:    req.Address,
			Phone:      req.Phone,
			GuestEmail: req.Email,
		}
		if idVal, exists := c.Get("user_id"); exists {
			id := idVal.(uint)
			in.UserID = &id
			in.UserEmail = c.GetString("email")
		}

		result, err := Checkout(db, m, ct, in)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Violations})
				return
			}
			slog.Error("checkout failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			return
		}

		if err := ct.Save(session); err != nil {
			// The order exists even if the emptied cart could not be
			// written back; log and keep going.
			slog.Error("failed to clear session cart after checkout", "order_ref", result.Order.Reference, "error", err)
		}

		broadcastNewOrder(result.Order)

		resp := gin.H{
			"message":    "Order placed successfully",
			"order":      result.Order,
			"email_sent": result.EmailSent,
		}
		if !result.EmailSent {
			resp["warning"] = "Your order was saved but the confirmation email could not be sent"
		}
		c.JSON(http.StatusCreated, resp)
	}
}
