package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionOrder(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusProcessing, OrderStatusDelivered, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransitionOrder(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestNewOrderIDUsesMillis(t *testing.T) {
	now := time.UnixMilli(1735689600123)
	assert.Equal(t, "ORD-1735689600123", NewOrderID(now))
}

func TestProductEffectivePrice(t *testing.T) {
	p := Product{Price: 100, SaleEnabled: true, SalePrice: 75}
	assert.True(t, p.OnSale())
	assert.Equal(t, 75.0, p.EffectivePrice())

	p.SaleEnabled = false
	assert.Equal(t, 100.0, p.EffectivePrice())

	p = Product{Price: 100, SaleEnabled: true, SalePrice: 120}
	assert.False(t, p.OnSale())
	assert.Equal(t, 100.0, p.EffectivePrice())
}

func TestProductApplyPricing(t *testing.T) {
	p := Product{Price: 2200, SaleEnabled: true, SalePrice: 1800}
	off := false
	p.ApplyPricing(nil, &off, nil)
	assert.False(t, p.SaleEnabled)
	assert.Zero(t, p.SalePrice)
	assert.False(t, p.IsOnSale)

	on, sale := true, 1500.0
	p.ApplyPricing(nil, &on, &sale)
	assert.NoError(t, p.ValidateSale())
	assert.True(t, p.IsOnSale)
	assert.Equal(t, 1500.0, p.EffectivePrice())
}

func TestProductValidateSale(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		want    error
	}{
		{"sale off", Product{Price: 100, SalePrice: 150}, nil},
		{"missing sale price", Product{Price: 100, SaleEnabled: true}, ErrSalePriceRequired},
		{"negative sale price", Product{Price: 100, SaleEnabled: true, SalePrice: -5}, ErrSalePriceNotPositive},
		{"equal to price", Product{Price: 100, SaleEnabled: true, SalePrice: 100}, ErrSalePriceTooHigh},
		{"above price", Product{Price: 100, SaleEnabled: true, SalePrice: 120}, ErrSalePriceTooHigh},
		{"valid", Product{Price: 100, SaleEnabled: true, SalePrice: 75}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.product.ValidateSale())
		})
	}
}
