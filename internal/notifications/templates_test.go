package notifications

import (
	"strings"
	"testing"

	"tourdesk/internal/bookings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStringSubstitutesPlaceholders(t *testing.T) {
	out := RenderString("Hi {{customer_name}}, see you at {{ meeting_point }}.", map[string]string{
		"customer_name": "Ana",
		"meeting_point": "Pier 3",
	})
	assert.Equal(t, "Hi Ana, see you at Pier 3.", out)
}

func TestRenderStringLeavesUnknownKeys(t *testing.T) {
	out := RenderString("Ref {{booking_reference}} for {{customer_name}}", map[string]string{
		"customer_name": "Ana",
	})
	assert.Equal(t, "Ref {{booking_reference}} for Ana", out)
}

func TestEveryTemplateRendersWithSampleData(t *testing.T) {
	templates := Templates()
	require.Len(t, templates, 6)

	for _, tmpl := range templates {
		t.Run(tmpl.ID, func(t *testing.T) {
			rendered, err := tmpl.Render(SampleData())
			require.NoError(t, err)

			assert.Equal(t, tmpl.ID, rendered.TemplateID)
			assert.NotContains(t, rendered.Subject, "{{")
			assert.NotContains(t, rendered.TextBody, "{{")
			assert.Contains(t, rendered.HTMLBody, "<html")
		})
	}
}

func TestTemplatePlaceholdersAreKnownKeys(t *testing.T) {
	known := SampleData()
	for _, tmpl := range Templates() {
		for _, key := range tmpl.Placeholders() {
			_, ok := known[key]
			assert.True(t, ok, "template %s uses unknown placeholder %s", tmpl.ID, key)
		}
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	tmpl, err := GetTemplate(TemplateBookingReceived)
	require.NoError(t, err)

	data := SampleData()
	data[bookings.PlaceholderCustomerName] = "<script>alert(1)</script>"

	rendered, err := tmpl.Render(data)
	require.NoError(t, err)

	assert.Contains(t, rendered.TextBody, "<script>")
	assert.NotContains(t, rendered.HTMLBody, "<script>")
	assert.Contains(t, rendered.HTMLBody, "&lt;script&gt;")
}

func TestGetTemplateUnknown(t *testing.T) {
	_, err := GetTemplate("booking_exploded")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestRenderNotification(t *testing.T) {
	n := NewNotificationBuilder().
		WithTemplate(TemplateBookingConfirmed).
		WithRecipient("ana@example.com", "Ana").
		WithTemplateData(map[string]string{
			bookings.PlaceholderBookingReference: "BK-00000001",
			bookings.PlaceholderCustomerName:     "Ana",
		}).
		Build()

	rendered, err := RenderNotification(n)
	require.NoError(t, err)
	assert.True(t, strings.Contains(rendered.Subject, "BK-00000001"))
	assert.Contains(t, rendered.TextBody, "Hi Ana")
}
