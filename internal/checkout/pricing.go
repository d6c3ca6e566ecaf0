package checkout

import (
	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

const (
	DeliveryStandard  = "standard"
	DeliveryExpress   = "express"
	DeliveryOvernight = "overnight"
)

var taxRate = decimal.NewFromFloat(0.08)

type DeliveryOption struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

var DeliveryOptions = []DeliveryOption{
	{ID: DeliveryStandard, Name: "Standard Delivery", Description: "5-7 business days", Price: 0},
	{ID: DeliveryExpress, Name: "Express Delivery", Description: "2-3 business days", Price: 25},
	{ID: DeliveryOvernight, Name: "Overnight Delivery", Description: "Next business day", Price: 50},
}

func LookupDelivery(id string) (DeliveryOption, bool) {
	for _, opt := range DeliveryOptions {
		if opt.ID == id {
			return opt, true
		}
	}
	return DeliveryOption{}, false
}

// Totals is the money breakdown shown on every checkout step.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals prices a list of cart lines. Unknown delivery options are
// charged no shipping.
func ComputeTotals(items []models.CartItem, delivery string) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}

	shipping := decimal.Zero
	if opt, ok := LookupDelivery(delivery); ok {
		shipping = decimal.NewFromFloat(opt.Price)
	}

	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(shipping).Add(tax)

	return Totals{
		Subtotal: subtotal.Round(2).InexactFloat64(),
		Shipping: shipping.Round(2).InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    total.Round(2).InexactFloat64(),
	}
}

// OrderItems snapshots cart lines into order lines.
func OrderItems(items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
			Category:  item.Category,
		})
	}
	return out
}
