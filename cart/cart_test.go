package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jporrasr97/tienda-api/models"
)

func product(id uint, name string, price float64, stock int) models.Product {
	return models.Product{ID: id, Name: name, Price: price, Stock: stock}
}

func TestAddCreatesAndAccumulatesLines(t *testing.T) {
	c := &Cart{}
	p := product(1, "Martillo", 50.0, 10)

	clamped := c.Add(p, 1)
	require.False(t, clamped)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)
	assert.Equal(t, "Martillo", c.Lines[0].Name)
	assert.Equal(t, 50.0, c.Lines[0].Price)

	clamped = c.Add(p, 2)
	require.False(t, clamped)
	require.Len(t, c.Lines, 1, "same product must never produce a second line")
	assert.Equal(t, 3, c.Lines[0].Quantity)
}

func TestNoDuplicateLinesAcrossOperations(t *testing.T) {
	c := &Cart{}
	p1 := product(1, "Martillo", 50.0, 10)
	p2 := product(2, "Silla", 300.0, 5)

	c.Add(p1, 2)
	c.Add(p2, 1)
	c.Increment(p1)
	c.Decrement(2)
	c.Add(p1, 1)
	c.Remove(2)
	c.Add(p2, 3)

	seen := map[uint]bool{}
	for _, l := range c.Lines {
		require.False(t, seen[l.ProductID], "duplicate line for product %d", l.ProductID)
		seen[l.ProductID] = true
	}
}

func TestAddClampsToStock(t *testing.T) {
	c := &Cart{}
	p := product(1, "Martillo", 50.0, 3)

	clamped := c.Add(p, 5)
	assert.True(t, clamped)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Quantity)

	// already at the ceiling: stays clamped
	clamped = c.Add(p, 1)
	assert.True(t, clamped)
	assert.Equal(t, 3, c.Lines[0].Quantity)
}

func TestAddClampToZeroStockRemovesLine(t *testing.T) {
	c := &Cart{}
	c.Add(product(1, "Martillo", 50.0, 10), 2)

	// product sold out since the first add
	clamped := c.Add(product(1, "Martillo", 50.0, 0), 1)
	assert.True(t, clamped)
	assert.Empty(t, c.Lines)
}

func TestAddNegativeDeltaRemovesLine(t *testing.T) {
	c := &Cart{}
	p := product(1, "Martillo", 50.0, 10)

	c.Add(p, 3)
	clamped := c.Add(p, -100)
	assert.False(t, clamped)
	assert.Empty(t, c.Lines)
}

func TestDecrementFloorsAtOne(t *testing.T) {
	c := &Cart{}
	p := product(1, "Martillo", 50.0, 10)
	c.Add(p, 2)

	c.Decrement(1)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)

	// decrementing at quantity 1 is a no-op, not a removal — the
	// asymmetry with Add's clamp-to-zero-removes behavior
	c.Decrement(1)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)

	// but Add with a negative delta does remove
	c.Add(p, -1)
	assert.Empty(t, c.Lines)
}

func TestDecrementMissingLineIsNoop(t *testing.T) {
	c := &Cart{}
	c.Decrement(42)
	assert.Empty(t, c.Lines)
}

func TestRemove(t *testing.T) {
	c := &Cart{}
	c.Add(product(1, "Martillo", 50.0, 10), 1)
	c.Add(product(2, "Silla", 300.0, 5), 1)

	c.Remove(1)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, uint(2), c.Lines[0].ProductID)

	// removing an absent product is a no-op
	c.Remove(99)
	assert.Len(t, c.Lines, 1)
}

func TestTotalUsesPriceSnapshots(t *testing.T) {
	c := &Cart{}
	c.Add(product(1, "Martillo", 50.0, 10), 2)
	c.Add(product(2, "Silla", 25.0, 10), 1)

	require.Equal(t, 125.0, c.Total())

	// a later catalog price change must not move the quoted total;
	// even incrementing through the repriced product keeps the
	// original snapshot
	repriced := product(1, "Martillo", 80.0, 10)
	c.Increment(repriced)
	assert.Equal(t, 50.0, c.Lines[0].Price)
	assert.Equal(t, 175.0, c.Total())
}

func TestTotalItemsCountsQuantities(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, 0, c.TotalItems())

	c.Add(product(1, "Martillo", 50.0, 10), 2)
	c.Add(product(2, "Silla", 300.0, 5), 3)
	assert.Equal(t, 5, c.TotalItems())
	assert.Len(t, c.Lines, 2)
}

func TestClear(t *testing.T) {
	c := &Cart{}
	c.Add(product(1, "Martillo", 50.0, 10), 2)
	require.False(t, c.IsEmpty())

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0.0, c.Total())
}

func TestInsertionOrderPreserved(t *testing.T) {
	c := &Cart{}
	c.Add(product(3, "Mesa", 800.0, 5), 1)
	c.Add(product(1, "Martillo", 50.0, 10), 1)
	c.Add(product(2, "Silla", 300.0, 5), 1)
	c.Increment(product(3, "Mesa", 800.0, 5))

	ids := []uint{c.Lines[0].ProductID, c.Lines[1].ProductID, c.Lines[2].ProductID}
	assert.Equal(t, []uint{3, 1, 2}, ids)
}
