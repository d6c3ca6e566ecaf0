package checkout

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	PaymentCard   = "card"
	PaymentPayPal = "paypal"
	PaymentApple  = "apple"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	expiryPattern     = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
)

func IsPaymentMethod(method string) bool {
	switch method {
	case PaymentCard, PaymentPayPal, PaymentApple:
		return true
	}
	return false
}

type Card struct {
	Number string `json:"cardNumber"`
	Name   string `json:"cardName"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// Last4 is the only card data that outlives the request.
func (c Card) Last4() string {
	digits := strings.ReplaceAll(c.Number, " ", "")
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}

// ValidateCard checks the card form the same way the storefront does.
func ValidateCard(card Card) error {
	fields := map[string]string{}

	number := strings.ReplaceAll(strings.TrimSpace(card.Number), " ", "")
	switch {
	case number == "":
		fields["cardNumber"] = "Card number is required"
	case !cardNumberPattern.MatchString(number):
		fields["cardNumber"] = "Card number must be 16 digits"
	}

	if strings.TrimSpace(card.Name) == "" {
		fields["cardName"] = "Cardholder name is required"
	}

	expiry := strings.TrimSpace(card.Expiry)
	switch {
	case expiry == "":
		fields["expiry"] = "Expiry date is required"
	case !expiryPattern.MatchString(expiry):
		fields["expiry"] = "Format should be MM/YY"
	}

	cvv := strings.TrimSpace(card.CVV)
	switch {
	case cvv == "":
		fields["cvv"] = "CVV is required"
	case !cvvPattern.MatchString(cvv):
		fields["cvv"] = "CVV must be 3 or 4 digits"
	}

	if len(fields) > 0 {
		return ValidationError{Fields: fields}
	}
	return nil
}

type Charge struct {
	Method string
	Amount float64
	Card   Card
}

type Receipt struct {
	Method    string    `json:"method"`
	Amount    float64   `json:"amount"`
	CardLast4 string    `json:"cardLast4,omitempty"`
	PaidAt    time.Time `json:"paidAt"`
}

// Processor charges a customer for a completed checkout.
type Processor interface {
	Charge(ctx context.Context, charge Charge) (Receipt, error)
}

// SimulatedProcessor approves every charge after Delay. It stands in for a
// payment gateway, which this store does not integrate with.
type SimulatedProcessor struct {
	Delay time.Duration
}

func (p SimulatedProcessor) Charge(ctx context.Context, charge Charge) (Receipt, error) {
	if !IsPaymentMethod(charge.Method) {
		return Receipt{}, fmt.Errorf("unsupported payment method %q", charge.Method)
	}
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	}

	receipt := Receipt{
		Method: charge.Method,
		Amount: charge.Amount,
		PaidAt: time.Now(),
	}
	if charge.Method == PaymentCard {
		receipt.CardLast4 = charge.Card.Last4()
	}
	return receipt, nil
}
