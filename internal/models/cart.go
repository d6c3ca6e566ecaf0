package models

import (
	"errors"
	"time"
)

const (
	MinItemQuantity = 1
	MaxItemQuantity = 10
)

var (
	ErrQuantityOutOfRange = errors.New("quantity must be between 1 and 10")
	ErrCartItemNotFound   = errors.New("item not in cart")
)

type CartItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Category  string  `json:"category,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Cart is kept outside MongoDB, keyed by user.
type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Add merges item into the cart, adding to the quantity of an existing line.
func (c *Cart) Add(item CartItem) error {
	if item.Quantity < MinItemQuantity || item.Quantity > MaxItemQuantity {
		return ErrQuantityOutOfRange
	}
	for i := range c.Items {
		if c.Items[i].ProductID != item.ProductID {
			continue
		}
		total := c.Items[i].Quantity + item.Quantity
		if total > MaxItemQuantity {
			return ErrQuantityOutOfRange
		}
		c.Items[i].Quantity = total
		c.Items[i].Name = item.Name
		c.Items[i].Price = item.Price
		c.Items[i].Image = item.Image
		c.Items[i].Category = item.Category
		return nil
	}
	c.Items = append(c.Items, item)
	return nil
}

func (c *Cart) SetQuantity(productID string, quantity int) error {
	if quantity < MinItemQuantity || quantity > MaxItemQuantity {
		return ErrQuantityOutOfRange
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return ErrCartItemNotFound
}

func (c *Cart) Remove(productID string) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrCartItemNotFound
}

// Deduct takes quantity units of productID out of the cart, dropping the line
// when nothing is left. Missing lines are ignored.
func (c *Cart) Deduct(productID string, quantity int) {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		c.Items[i].Quantity -= quantity
		if c.Items[i].Quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		}
		return
	}
}

// Count is the number of units across all lines.
func (c Cart) Count() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
