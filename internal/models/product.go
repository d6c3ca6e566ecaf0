package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryWomen = "women"
	CategoryMen   = "men"
)

var Categories = []string{CategoryWomen, CategoryMen}

var (
	ErrSalePriceRequired    = errors.New("salePrice is required when saleEnabled is true")
	ErrSalePriceNotPositive = errors.New("salePrice must be greater than 0")
	ErrSalePriceTooHigh     = errors.New("salePrice must be less than price")
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	SaleEnabled bool               `bson:"saleEnabled" json:"saleEnabled"`
	SalePrice   float64            `bson:"salePrice" json:"salePrice"`
	IsOnSale    bool               `bson:"-" json:"isOnSale"`
	Category    string             `bson:"category" json:"category"`
	Image       string             `bson:"image" json:"image"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// OnSale reports whether the sale price currently replaces the list price.
func (p Product) OnSale() bool {
	return p.SaleEnabled && p.SalePrice > 0 && p.SalePrice < p.Price
}

// EffectivePrice is the unit price charged in carts and orders.
func (p Product) EffectivePrice() float64 {
	if p.OnSale() {
		return p.SalePrice
	}
	return p.Price
}

// ApplyPricing merges a partial price edit. Turning the sale off clears the
// sale price unless a new one is given in the same edit.
func (p *Product) ApplyPricing(price *float64, saleEnabled *bool, salePrice *float64) {
	if price != nil {
		p.Price = *price
	}
	if saleEnabled != nil {
		p.SaleEnabled = *saleEnabled
		if !*saleEnabled {
			p.SalePrice = 0
		}
	}
	if salePrice != nil {
		p.SalePrice = *salePrice
	}
	p.IsOnSale = p.OnSale()
}

// ValidateSale checks an enabled sale against the list price. A zero sale
// price counts as unset.
func (p Product) ValidateSale() error {
	if !p.SaleEnabled {
		return nil
	}
	switch {
	case p.SalePrice == 0:
		return ErrSalePriceRequired
	case p.SalePrice < 0:
		return ErrSalePriceNotPositive
	case p.SalePrice >= p.Price:
		return ErrSalePriceTooHigh
	}
	return nil
}
