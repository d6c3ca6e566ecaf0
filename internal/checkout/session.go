// Package checkout implements the four-step checkout flow (review, shipping,
// delivery, payment) and the pricing rules applied to it.
package checkout

import (
	"time"

	"storefront/internal/models"
)

type Step int

const (
	StepReview Step = iota + 1
	StepShipping
	StepDelivery
	StepPayment
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepReview:
		return "review"
	case StepShipping:
		return "shipping"
	case StepDelivery:
		return "delivery"
	case StepPayment:
		return "payment"
	case StepComplete:
		return "complete"
	}
	return "unknown"
}

// Session is a checkout in progress. It is stored between requests so that a
// page refresh resumes at the same step.
type Session struct {
	ID              string                  `json:"id"`
	UserID          string                  `json:"userId"`
	Step            Step                    `json:"step"`
	StepName        string                  `json:"stepName"`
	Items           []models.CartItem       `json:"items"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress,omitempty"`
	SavedAddressID  string                  `json:"savedAddressId,omitempty"`
	SaveAddress     bool                    `json:"saveAddress"`
	DeliveryOption  string                  `json:"deliveryOption"`
	PaymentMethod   string                  `json:"paymentMethod,omitempty"`
	OrderID         string                  `json:"orderId,omitempty"`
	Totals          Totals                  `json:"totals"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

// NewSession opens a checkout over a snapshot of the cart lines.
func NewSession(id, userID string, items []models.CartItem, now time.Time) (*Session, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	snapshot := make([]models.CartItem, len(items))
	copy(snapshot, items)

	s := &Session{
		ID:             id,
		UserID:         userID,
		Step:           StepReview,
		Items:          snapshot,
		DeliveryOption: DeliveryStandard,
		CreatedAt:      now,
	}
	s.touch(now)
	return s, nil
}

func (s *Session) touch(now time.Time) {
	s.StepName = s.Step.String()
	s.Totals = ComputeTotals(s.Items, s.DeliveryOption)
	s.UpdatedAt = now
}

func (s *Session) require(step Step) error {
	if s.Step == StepComplete {
		return ErrSessionComplete
	}
	if s.Step < step {
		return StepError{Current: s.Step, Required: step}
	}
	return nil
}

// ConfirmReview accepts the cart snapshot and moves on to shipping.
func (s *Session) ConfirmReview(now time.Time) error {
	if err := s.require(StepReview); err != nil {
		return err
	}
	if s.Step == StepReview {
		s.Step = StepShipping
	}
	s.touch(now)
	return nil
}

// SetShipping records the destination. savedAddressID is empty when the
// address was typed in rather than picked from the address book.
func (s *Session) SetShipping(addr models.ShippingAddress, savedAddressID string, save bool, now time.Time) error {
	if err := s.require(StepShipping); err != nil {
		return err
	}
	if err := ValidateShippingAddress(addr, savedAddressID == ""); err != nil {
		return err
	}
	normalized := NormalizeAddress(addr)
	s.ShippingAddress = &normalized
	s.SavedAddressID = savedAddressID
	s.SaveAddress = save && savedAddressID == ""
	if s.Step == StepShipping {
		s.Step = StepDelivery
	}
	s.touch(now)
	return nil
}

func (s *Session) SetDelivery(option string, now time.Time) error {
	if err := s.require(StepDelivery); err != nil {
		return err
	}
	if _, ok := LookupDelivery(option); !ok {
		return ValidationError{Fields: map[string]string{"option": "Unknown delivery option"}}
	}
	s.DeliveryOption = option
	if s.Step == StepDelivery {
		s.Step = StepPayment
	}
	s.touch(now)
	return nil
}

// ReadyForPayment validates the payment form without changing the session.
func (s *Session) ReadyForPayment(method string, card Card) error {
	if err := s.require(StepPayment); err != nil {
		return err
	}
	if !IsPaymentMethod(method) {
		return ValidationError{Fields: map[string]string{"method": "Unknown payment method"}}
	}
	if method == PaymentCard {
		return ValidateCard(card)
	}
	return nil
}

// Reprice replaces the snapshot lines with freshly priced ones before the
// order is placed.
func (s *Session) Reprice(items []models.CartItem, now time.Time) {
	s.Items = items
	s.touch(now)
}

// Complete marks the session as paid and attached to an order.
func (s *Session) Complete(method, orderID string, now time.Time) error {
	if err := s.require(StepPayment); err != nil {
		return err
	}
	s.PaymentMethod = method
	s.OrderID = orderID
	s.Step = StepComplete
	s.touch(now)
	return nil
}

// GoBack returns to an earlier step. Data entered on later steps is kept so
// that moving forward again only needs a confirmation.
func (s *Session) GoBack(step Step, now time.Time) error {
	if s.Step == StepComplete {
		return ErrSessionComplete
	}
	if step < StepReview || step >= s.Step {
		return StepError{Current: s.Step, Required: step}
	}
	s.Step = step
	s.touch(now)
	return nil
}

// Order builds the order document placed when payment succeeds.
func (s *Session) Order(orderID string, method string, now time.Time) models.Order {
	totals := ComputeTotals(s.Items, s.DeliveryOption)
	order := models.Order{
		OrderID:        orderID,
		Items:          OrderItems(s.Items),
		DeliveryOption: s.DeliveryOption,
		PaymentMethod:  method,
		Subtotal:       totals.Subtotal,
		ShippingCost:   totals.Shipping,
		Tax:            totals.Tax,
		Total:          totals.Total,
		Status:         models.OrderStatusProcessing,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if s.ShippingAddress != nil {
		order.ShippingAddress = *s.ShippingAddress
	}
	return order
}
