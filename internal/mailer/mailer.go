// Package mailer sends transactional email for placed orders.
package mailer

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"storefront/internal/models"
)

type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order models.Order) error
}

// New returns a SendGrid mailer, or a no-op one when apiKey is empty.
func New(apiKey, from string) Mailer {
	if strings.TrimSpace(apiKey) == "" {
		log.Println("[MAIL] [WARN] SENDGRID_API_KEY not set, order emails disabled")
		return NoopMailer{}
	}
	return &SendGridMailer{client: sendgrid.NewSendClient(apiKey), from: from}
}

type NoopMailer struct{}

func (NoopMailer) SendOrderConfirmation(context.Context, models.Order) error { return nil }

type SendGridMailer struct {
	client *sendgrid.Client
	from   string
}

func (m *SendGridMailer) SendOrderConfirmation(ctx context.Context, order models.Order) error {
	to := strings.TrimSpace(order.ShippingAddress.Email)
	if to == "" {
		return nil
	}

	subject, plain, html := OrderConfirmation(order)
	message := mail.NewSingleEmail(
		mail.NewEmail("Gucci Store", m.from),
		subject,
		mail.NewEmail(order.ShippingAddress.FirstName+" "+order.ShippingAddress.LastName, to),
		plain,
		html,
	)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send order confirmation: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("send order confirmation: sendgrid status %d", resp.StatusCode)
	}
	log.Println("[MAIL] [INFO] order confirmation sent:", order.OrderID)
	return nil
}

var confirmationHTML = template.Must(template.New("confirmation").Parse(
	`<p>Dear {{.FirstName}},</p>` +
		`<p>Thank you for your purchase. Order <strong>{{.OrderID}}</strong> is {{.Status}}.</p><ul>` +
		`{{range .Lines}}<li>{{.Name}} &times; {{.Quantity}} &mdash; ${{.Amount}}</li>{{end}}` +
		`</ul><p>Delivery: {{.Delivery}}<br>Total: <strong>${{.Total}}</strong></p>`))

type confirmationLine struct {
	Name     string
	Quantity int
	Amount   string
}

type confirmationView struct {
	FirstName string
	OrderID   string
	Status    string
	Lines     []confirmationLine
	Delivery  string
	Total     string
}

// OrderConfirmation renders the subject, text and HTML bodies. Every field in
// the HTML body is escaped.
func OrderConfirmation(order models.Order) (subject, plain, html string) {
	subject = fmt.Sprintf("Your order %s is confirmed", order.OrderID)

	view := confirmationView{
		FirstName: order.ShippingAddress.FirstName,
		OrderID:   order.OrderID,
		Status:    strings.ToLower(order.Status),
		Delivery:  order.DeliveryOption,
		Total:     fmt.Sprintf("%.2f", order.Total),
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Dear %s,\n\nThank you for your purchase. Order %s is %s.\n\n",
		view.FirstName, view.OrderID, view.Status)
	for _, item := range order.Items {
		line := confirmationLine{
			Name:     item.Name,
			Quantity: item.Quantity,
			Amount:   fmt.Sprintf("%.2f", item.Price*float64(item.Quantity)),
		}
		view.Lines = append(view.Lines, line)
		fmt.Fprintf(&text, "- %s x%d  $%s\n", line.Name, line.Quantity, line.Amount)
	}
	fmt.Fprintf(&text, "\nDelivery: %s\nTotal: $%s\n", view.Delivery, view.Total)

	var markup strings.Builder
	if err := confirmationHTML.Execute(&markup, view); err != nil {
		log.Println("[MAIL] [ERROR] render confirmation:", err)
		return subject, text.String(), ""
	}
	return subject, text.String(), markup.String()
}
