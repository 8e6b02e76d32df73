package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled, StatusCompleted},
		StatusConfirmed: {StatusCancelled, StatusCompleted},
	}

	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, Status("archived").IsTerminal())
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus(" Confirmed ")
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, s)

	_, ok = ParseStatus("archived")
	assert.False(t, ok)
}

func TestDerivePaymentStatus(t *testing.T) {
	assert.Equal(t, PaymentStatusUnpaid, DerivePaymentStatus(0, 250))
	assert.Equal(t, PaymentStatusPartial, DerivePaymentStatus(100, 250))
	assert.Equal(t, PaymentStatusPaid, DerivePaymentStatus(250, 250))
	assert.Equal(t, PaymentStatusPaid, DerivePaymentStatus(0.1+0.2, 0.3))
}
