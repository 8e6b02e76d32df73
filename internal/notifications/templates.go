package notifications

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"sort"
	"strings"

	"tourdesk/internal/bookings"
)

const (
	TemplateBookingReceived  = bookings.TemplateBookingReceived
	TemplateBookingConfirmed = bookings.TemplateBookingConfirmed
	TemplateBookingCancelled = bookings.TemplateBookingCancelled
	TemplateBookingCompleted = bookings.TemplateBookingCompleted
	TemplatePaymentReceived  = bookings.TemplatePaymentReceived
	TemplateBookingRefunded  = bookings.TemplateBookingRefunded
)

var ErrTemplateNotFound = errors.New("email template not found")

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-z_]+)\s*\}\}`)

// EmailTemplate is a subject and plain-text body with {{key}} placeholders.
type EmailTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

type RenderedEmail struct {
	TemplateID string `json:"template_id"`
	Subject    string `json:"subject"`
	TextBody   string `json:"text_body"`
	HTMLBody   string `json:"html_body"`
}

var defaultTemplates = []EmailTemplate{
	{
		ID:          TemplateBookingReceived,
		Name:        "Booking Received",
		Description: "Sent when a customer submits a booking request",
		Subject:     "We received your booking {{booking_reference}}",
		Body: `Hi {{customer_name}},

Thank you for booking {{tour_name}} on {{tour_date}} for {{guest_count}} guest(s).

Your booking reference is {{booking_reference}}. The total is {{total_amount}}.
We will confirm your booking shortly.`,
	},
	{
		ID:          TemplateBookingConfirmed,
		Name:        "Booking Confirmed",
		Description: "Sent when an admin confirms a booking",
		Subject:     "Your booking {{booking_reference}} is confirmed",
		Body: `Hi {{customer_name}},

Good news! Your booking for {{tour_name}} is confirmed.

Date: {{tour_date}}
Time: {{tour_time}}
Meeting point: {{meeting_point}}
Guests: {{guest_count}}

Total: {{total_amount}} (paid so far: {{paid_amount}})`,
	},
	{
		ID:          TemplateBookingCancelled,
		Name:        "Booking Cancelled",
		Description: "Sent when a booking is cancelled",
		Subject:     "Your booking {{booking_reference}} was cancelled",
		Body: `Hi {{customer_name}},

Your booking {{booking_reference}} for {{tour_name}} on {{tour_date}} has been cancelled.

If you have already paid, we will be in touch about your refund.`,
	},
	{
		ID:          TemplateBookingCompleted,
		Name:        "Tour Completed",
		Description: "Sent after the tour date once the booking is completed",
		Subject:     "Thanks for touring {{tour_name}} with us",
		Body: `Hi {{customer_name}},

We hope you enjoyed {{tour_name}} on {{tour_date}}. Thank you for travelling with us!`,
	},
	{
		ID:          TemplatePaymentReceived,
		Name:        "Payment Received",
		Description: "Sent when a payment is recorded against a booking",
		Subject:     "Payment received for booking {{booking_reference}}",
		Body: `Hi {{customer_name}},

We received your payment for {{tour_name}}.

Transaction: {{transaction_id}}
Paid so far: {{paid_amount}} of {{total_amount}}`,
	},
	{
		ID:          TemplateBookingRefunded,
		Name:        "Booking Refunded",
		Description: "Sent when a booking's payments are refunded",
		Subject:     "Refund issued for booking {{booking_reference}}",
		Body: `Hi {{customer_name}},

We issued a refund of {{refund_amount}} for your booking {{booking_reference}} ({{tour_name}}).
Cancellation fee withheld: {{cancellation_fee}}

Refund transaction: {{transaction_id}}`,
	},
}

var templateRegistry = func() map[string]EmailTemplate {
	m := make(map[string]EmailTemplate, len(defaultTemplates))
	for _, t := range defaultTemplates {
		m[t.ID] = t
	}
	return m
}()

var htmlLayout = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1F2937; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #0F766E;">{{.Subject}}</h2>
  {{range .Paragraphs}}<p>{{range $i, $line := .}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
  {{end}}
  <p style="color: #6B7280; font-size: 12px;">{{.Footer}}</p>
</body>
</html>`))

// Templates returns every known template ordered by id.
func Templates() []EmailTemplate {
	out := make([]EmailTemplate, 0, len(templateRegistry))
	for _, t := range templateRegistry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func GetTemplate(id string) (EmailTemplate, error) {
	t, ok := templateRegistry[id]
	if !ok {
		return EmailTemplate{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return t, nil
}

// RenderString substitutes {{key}} placeholders. Keys missing from data are
// left as written so a preview shows what was not filled.
func RenderString(s string, data map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		if v, ok := data[key]; ok {
			return v
		}
		return match
	})
}

// Placeholders lists the distinct keys a template uses.
func (t EmailTemplate) Placeholders() []string {
	seen := map[string]bool{}
	var keys []string
	for _, s := range []string{t.Subject, t.Body} {
		for _, m := range placeholderPattern.FindAllStringSubmatch(s, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				keys = append(keys, m[1])
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func (t EmailTemplate) Render(data map[string]string) (*RenderedEmail, error) {
	subject := RenderString(t.Subject, data)
	text := RenderString(t.Body, data)

	var paragraphs [][]string
	for _, block := range strings.Split(text, "\n\n") {
		paragraphs = append(paragraphs, strings.Split(block, "\n"))
	}

	var buf bytes.Buffer
	err := htmlLayout.Execute(&buf, struct {
		Subject    string
		Paragraphs [][]string
		Footer     string
	}{subject, paragraphs, "This is an automated message about your booking."})
	if err != nil {
		return nil, fmt.Errorf("failed to render %s html: %w", t.ID, err)
	}

	return &RenderedEmail{
		TemplateID: t.ID,
		Subject:    subject,
		TextBody:   text,
		HTMLBody:   buf.String(),
	}, nil
}

// RenderNotification renders the notification's template with its data.
func RenderNotification(n *EmailNotification) (*RenderedEmail, error) {
	t, err := GetTemplate(n.TemplateID)
	if err != nil {
		return nil, err
	}
	return t.Render(n.TemplateData)
}

// SampleData fills every placeholder for admin previews.
func SampleData() map[string]string {
	return map[string]string{
		bookings.PlaceholderCustomerName:     "Jordan Rivera",
		bookings.PlaceholderCustomerEmail:    "jordan@example.com",
		bookings.PlaceholderBookingReference: "BK-1A2B3C4D",
		bookings.PlaceholderTourName:         "Old Town Walking Tour",
		bookings.PlaceholderTourDate:         "Saturday, March 14, 2026",
		bookings.PlaceholderTourTime:         "09:30",
		bookings.PlaceholderGuestCount:       "3",
		bookings.PlaceholderTotalAmount:      "250.00",
		bookings.PlaceholderPaidAmount:       "100.00",
		bookings.PlaceholderMeetingPoint:     "Main Square fountain",
		bookings.PlaceholderTransactionID:    "TXN_1773480600_9F8E7D6C",
		bookings.PlaceholderRefundAmount:     "100.00",
		bookings.PlaceholderCancellationFee:  "0.00",
	}
}
