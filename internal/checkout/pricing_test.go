package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/models"
)

func TestComputeTotals(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "a", Price: 2200, Quantity: 1},
		{ProductID: "b", Price: 450, Quantity: 2},
	}

	totals := ComputeTotals(items, DeliveryExpress)
	assert.Equal(t, 3100.0, totals.Subtotal)
	assert.Equal(t, 25.0, totals.Shipping)
	assert.Equal(t, 248.0, totals.Tax)
	assert.Equal(t, 3373.0, totals.Total)
}

func TestComputeTotalsRoundsTaxToCents(t *testing.T) {
	items := []models.CartItem{{ProductID: "a", Price: 19.99, Quantity: 3}}

	totals := ComputeTotals(items, DeliveryStandard)
	assert.Equal(t, 59.97, totals.Subtotal)
	assert.Equal(t, 0.0, totals.Shipping)
	assert.Equal(t, 4.8, totals.Tax)
	assert.Equal(t, 64.77, totals.Total)
}

func TestComputeTotalsUnknownDeliveryIsFree(t *testing.T) {
	items := []models.CartItem{{ProductID: "a", Price: 100, Quantity: 1}}
	assert.Equal(t, 0.0, ComputeTotals(items, "teleport").Shipping)
	assert.Equal(t, 50.0, ComputeTotals(items, DeliveryOvernight).Shipping)
}
