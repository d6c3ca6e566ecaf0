package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func TestNewWithoutKeyIsNoop(t *testing.T) {
	m := New("", "orders@example.com")
	_, ok := m.(NoopMailer)
	require.True(t, ok)
	assert.NoError(t, m.SendOrderConfirmation(context.Background(), models.Order{}))
}

func TestOrderConfirmationContent(t *testing.T) {
	order := models.Order{
		OrderID:         "ORD-1700000000000",
		Status:          models.OrderStatusProcessing,
		DeliveryOption:  "express",
		Total:           997,
		ShippingAddress: models.ShippingAddress{FirstName: "Ada", Email: "ada@example.com"},
		Items:           []models.OrderItem{{Name: "GG Marmont Leather Belt", Price: 450, Quantity: 2}},
	}

	subject, plain, html := OrderConfirmation(order)
	assert.Equal(t, "Your order ORD-1700000000000 is confirmed", subject)
	assert.Contains(t, plain, "Dear Ada")
	assert.Contains(t, plain, "GG Marmont Leather Belt x2  $900.00")
	assert.Contains(t, plain, "Total: $997.00")
	assert.Contains(t, html, "<strong>ORD-1700000000000</strong>")
}

func TestOrderConfirmationEscapesMarkup(t *testing.T) {
	order := models.Order{
		OrderID:         "ORD-1700000000000",
		Status:          models.OrderStatusProcessing,
		ShippingAddress: models.ShippingAddress{FirstName: `<a href="http://evil">click</a>`},
		Items:           []models.OrderItem{{Name: "<script>x</script>", Price: 10, Quantity: 1}},
	}

	_, plain, html := OrderConfirmation(order)
	assert.NotContains(t, html, "<a href")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "Dear &lt;a href=&#34;http://evil&#34;&gt;click&lt;/a&gt;,")
	assert.Contains(t, html, "&lt;script&gt;x&lt;/script&gt; &times; 1 &mdash; $10.00")
	assert.Contains(t, plain, `Dear <a href="http://evil">click</a>,`)
}
