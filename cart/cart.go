package cart

import (
	"github.com/jporrasr97/tienda-api/models"
)

// Line is one product entry in a session cart. Name and Price are
// snapshots captured when the product was first added, so a later
// price edit in the catalog does not change a shopper's quoted total.
type Line struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Cart holds the session cart lines in insertion order. There is at
// most one line per product id; every line has quantity >= 1.
type Cart struct {
	Lines []Line
}

// Add applies a quantity delta for the given product. A missing line
// counts as quantity 0, so Add(p, 1) creates the line. If the
// resulting quantity drops to zero or below the line is removed. If it
// exceeds the product's current stock it is clamped to stock and Add
// reports clamped=true so the caller can warn the shopper; a clamp
// down to zero removes the line as well. Stock checks here are
// advisory only, checkout re-validates against the live catalog.
func (c *Cart) Add(p models.Product, delta int) (clamped bool) {
	idx := c.index(p.ID)

	existing := 0
	if idx >= 0 {
		existing = c.Lines[idx].Quantity
	}

	qty := existing + delta
	if qty <= 0 {
		c.removeAt(idx)
		return false
	}

	if qty > p.Stock {
		qty = p.Stock
		clamped = true
	}
	if qty <= 0 {
		c.removeAt(idx)
		return clamped
	}

	if idx >= 0 {
		c.Lines[idx].Quantity = qty
		return clamped
	}
	c.Lines = append(c.Lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  qty,
	})
	return clamped
}

// Increment raises the line's quantity by one, clamped to stock.
func (c *Cart) Increment(p models.Product) (clamped bool) {
	return c.Add(p, 1)
}

// Decrement lowers the line's quantity by one but never below 1;
// decrementing a quantity-1 line is a no-op rather than a removal.
// This is deliberately asymmetric with Add, which removes lines that
// reach zero. Use Remove to drop a line.
func (c *Cart) Decrement(productID uint) {
	if idx := c.index(productID); idx >= 0 && c.Lines[idx].Quantity > 1 {
		c.Lines[idx].Quantity--
	}
}

// Remove deletes the product's line if present, no-op otherwise.
func (c *Cart) Remove(productID uint) {
	c.removeAt(c.index(productID))
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total sums price * quantity over all lines using the stored price
// snapshots, never a fresh catalog lookup.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// TotalItems returns the total quantity across all lines (not the
// number of lines), used for the cart badge.
func (c *Cart) TotalItems() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) index(productID uint) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(idx int) {
	if idx < 0 {
		return
	}
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
}
