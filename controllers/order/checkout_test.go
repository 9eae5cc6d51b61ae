package orderControllers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jporrasr97/tienda-api/cart"
	"github.com/jporrasr97/tienda-api/mailer"
	"github.com/jporrasr97/tienda-api/models"
)

type sentMail struct {
	subject  string
	textBody string
	htmlBody string
}

type fakeMailer struct {
	sent []sentMail
	fail bool
}

func (m *fakeMailer) Send(subject, textBody, htmlBody string) error {
	if m.fail {
		return mailer.ErrDelivery
	}
	m.sent = append(m.sent, sentMail{subject, textBody, htmlBody})
	return nil
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps every session on the same in-memory DB
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func guestInput() CheckoutInput {
	return CheckoutInput{
		Address:    "4a avenida 5-55, zona 1",
		Phone:      "+502 5555-1234",
		GuestEmail: "cliente@example.com",
	}
}

func validationErr(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := testDB(t)
	m := &fakeMailer{}

	result, err := Checkout(db, m, &cart.Cart{}, guestInput())
	require.Nil(t, result)
	verr := validationErr(t, err)
	assert.Contains(t, verr.Violations, "cart is empty")

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count, "no order may be persisted for an invalid checkout")
	assert.Empty(t, m.sent)
}

func TestCheckoutCollectsAllViolations(t *testing.T) {
	db := testDB(t)

	result, err := Checkout(db, &fakeMailer{}, &cart.Cart{}, CheckoutInput{
		Address: "",
		Phone:   "abc-123", // 3 digits
	})
	require.Nil(t, result)
	verr := validationErr(t, err)
	assert.Contains(t, verr.Violations, "cart is empty")
	assert.Contains(t, verr.Violations, "shipping address is required")
	assert.Contains(t, verr.Violations, "phone number must contain at least 8 digits")
	assert.Contains(t, verr.Violations, "email is required for guest checkout")
}

func TestCheckoutPhoneDigitRule(t *testing.T) {
	db := testDB(t)
	p := seedProduct(t, db, "Martillo", 50.0, 10)

	newCart := func() *cart.Cart {
		c := &cart.Cart{}
		c.Add(p, 1)
		return c
	}

	// digits are counted anywhere in the string, not required contiguous
	in := guestInput()
	in.Phone = "abc-1234-567"
	result, err := Checkout(db, &fakeMailer{}, newCart(), in)
	require.NoError(t, err)
	require.NotNil(t, result)

	in.Phone = "abc-123"
	result, err = Checkout(db, &fakeMailer{}, newCart(), in)
	require.Nil(t, result)
	verr := validationErr(t, err)
	assert.Contains(t, verr.Violations, "phone number must contain at least 8 digits")
}

func TestCheckoutGuestEmailRequired(t *testing.T) {
	db := testDB(t)
	p := seedProduct(t, db, "Martillo", 50.0, 10)
	c := &cart.Cart{}
	c.Add(p, 1)

	in := guestInput()
	in.GuestEmail = ""
	_, err := Checkout(db, &fakeMailer{}, c, in)
	verr := validationErr(t, err)
	assert.Contains(t, verr.Violations, "email is required for guest checkout")

	// an authenticated identity needs no guest email
	user := models.User{Name: "Jerson", Email: "jerson@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	in.UserID = &user.ID
	in.UserEmail = user.Email
	result, err := Checkout(db, &fakeMailer{}, c, in)
	require.NoError(t, err)
	require.NotNil(t, result.Order.UserID)
	assert.Equal(t, user.ID, *result.Order.UserID)
	assert.Empty(t, result.Order.GuestEmail)
}

func TestCheckoutStockShortage(t *testing.T) {
	db := testDB(t)
	p := seedProduct(t, db, "Martillo", 50.0, 3)

	// clamped at add-time to 3, then the cart line is inflated to 5 as
	// if stock had shrunk after the add — checkout must re-check live
	// stock, clamp-at-add does not bypass it
	c := &cart.Cart{}
	c.Add(p, 5)
	require.Equal(t, 3, c.Lines[0].Quantity)
	c.Lines[0].Quantity = 5

	result, err := Checkout(db, &fakeMailer{}, c, guestInput())
	require.Nil(t, result)
	verr := validationErr(t, err)
	assert.Contains(t, verr.Violations, "insufficient stock for Martillo: available 3, requested 5")

	// nothing was committed and stock is untouched
	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.OrderItem{}).Count(&count)
	assert.Zero(t, count)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 3, fresh.Stock)

	// and the cart is left alone so the shopper can adjust
	assert.Len(t, c.Lines, 1)
}

func TestCheckoutVanishedProduct(t *testing.T) {
	db := testDB(t)
	p := seedProduct(t, db, "Martillo", 50.0, 3)

	c := &cart.Cart{}
	c.Add(p, 1)
	require.NoError(t, db.Delete(&models.Product{}, p.ID).Error)

	_, err := Checkout(db, &fakeMailer{}, c, guestInput())
	verr := validationErr(t, err)
	assert.Contains(t, verr.Violations, `product "Martillo" is no longer available`)
}

func TestCheckoutHappyPath(t *testing.T) {
	db := testDB(t)
	p1 := seedProduct(t, db, "Martillo", 50.0, 10)
	p2 := seedProduct(t, db, "Destornillador", 25.0, 4)

	c := &cart.Cart{}
	c.Add(p1, 2)
	c.Add(p2, 1)

	m := &fakeMailer{}
	result, err := Checkout(db, m, c, guestInput())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.EmailSent)

	// order total comes from the cart's price snapshots
	assert.Equal(t, 125.0, result.Order.Total)
	assert.Equal(t, models.OrderStatusPending, result.Order.Status)
	assert.NotEmpty(t, result.Order.Reference)
	assert.Equal(t, "cliente@example.com", result.Order.GuestEmail)

	var stored models.Order
	require.NoError(t, db.Preload("Items").First(&stored, result.Order.ID).Error)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, 50.0, stored.Items[0].UnitPrice)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.Equal(t, 25.0, stored.Items[1].UnitPrice)
	assert.Equal(t, 1, stored.Items[1].Quantity)

	// stock decremented per purchased quantity
	var fresh1, fresh2 models.Product
	require.NoError(t, db.First(&fresh1, p1.ID).Error)
	require.NoError(t, db.First(&fresh2, p2.ID).Error)
	assert.Equal(t, 8, fresh1.Stock)
	assert.Equal(t, 3, fresh2.Stock)

	// cart emptied, operator notified exactly once with the total
	assert.True(t, c.IsEmpty())
	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0].textBody, "Total: Q125.00")
	assert.Contains(t, m.sent[0].textBody, "- Martillo x2 = Q100.00")
	assert.Contains(t, m.sent[0].textBody, "4a avenida 5-55, zona 1")
}

func TestCheckoutOrderTotalImmuneToPriceEdit(t *testing.T) {
	db := testDB(t)
	p := seedProduct(t, db, "Martillo", 50.0, 10)

	c := &cart.Cart{}
	c.Add(p, 2)

	// admin edits the price while the cart is open
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p.ID).Update("price", 999.0).Error)

	result, err := Checkout(db, &fakeMailer{}, c, guestInput())
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Order.Total)
	assert.Equal(t, 50.0, result.Order.Items[0].UnitPrice)
}

func TestCheckoutMailFailureKeepsOrder(t *testing.T) {
	db := testDB(t)
	p := seedProduct(t, db, "Martillo", 50.0, 10)

	c := &cart.Cart{}
	c.Add(p, 1)

	m := &fakeMailer{fail: true}
	result, err := Checkout(db, m, c, guestInput())
	require.NoError(t, err, "a delivery failure must not surface as a checkout failure")
	require.NotNil(t, result)
	assert.False(t, result.EmailSent)

	// the committed order is still queryable afterwards
	var stored models.Order
	require.NoError(t, db.Preload("Items").First(&stored, result.Order.ID).Error)
	assert.Len(t, stored.Items, 1)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 9, fresh.Stock, "stock decrement stands even when mail fails")
	assert.True(t, c.IsEmpty())
}

func TestCountDigits(t *testing.T) {
	assert.Equal(t, 8, countDigits("abc-1234-567x8"))
	assert.Equal(t, 3, countDigits("abc-123"))
	assert.Equal(t, 0, countDigits(""))
}
