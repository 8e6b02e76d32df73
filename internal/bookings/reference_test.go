package bookings

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReferenceFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		ref := GenerateReference()
		assert.Len(t, ref, 11)
		assert.True(t, IsValidReference(ref), ref)
	}
}

func TestGenerateReferenceIsUnlikelyToCollide(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		seen[GenerateReference()] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

func TestNormalizeReference(t *testing.T) {
	assert.Equal(t, "BK-AB12CD34", NormalizeReference("  bk-ab12cd34 "))
	assert.False(t, IsValidReference("BK-ab12cd34"))
	assert.False(t, IsValidReference("BK-AB12CD3"))
	assert.False(t, IsValidReference("XX-AB12CD34"))
}

func TestGenerateTransactionID(t *testing.T) {
	at := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, strings.HasPrefix(generateTransactionID(PaymentKindPayment, at), "TXN_1768003200_"))
	assert.True(t, strings.HasPrefix(generateTransactionID(PaymentKindRefund, at), "RFD_"))
}
