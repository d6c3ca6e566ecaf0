package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

var orderTransitions = map[string][]string{
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
}

// CanTransitionOrder reports whether an order may move from one status to another.
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NewOrderID returns the customer-facing order reference.
func NewOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%d", now.UnixMilli())
}

// OrderItem is a product snapshot taken when the order is placed.
type OrderItem struct {
	ProductID string  `bson:"productId" json:"id"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
	Category  string  `bson:"category,omitempty" json:"category,omitempty"`
}

// Order defines the persisted order document.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	OrderID         string             `bson:"orderId" json:"orderId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	DeliveryOption  string             `bson:"deliveryOption" json:"deliveryOption"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	ShippingCost    float64            `bson:"shippingCost" json:"shippingCost"`
	Tax             float64            `bson:"tax" json:"tax"`
	Total           float64            `bson:"total" json:"total"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
