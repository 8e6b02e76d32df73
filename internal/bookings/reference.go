package bookings

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const referencePrefix = "BK-"

var referencePattern = regexp.MustCompile(`^BK-[A-Z0-9]{8}$`)

// GenerateReference returns a human-friendly booking reference such as BK-3F9A0C1D.
// The suffix comes from a random v4 UUID, so collisions are rare but still
// possible; the unique index on booking_ref catches them.
func GenerateReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return referencePrefix + id[:8]
}

// IsValidReference checks the BK-XXXXXXXX shape.
func IsValidReference(ref string) bool {
	return referencePattern.MatchString(ref)
}

// NormalizeReference upper-cases and trims a reference typed by a customer.
func NormalizeReference(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}

func generateTransactionID(kind PaymentKind, at time.Time) string {
	prefix := "TXN"
	if kind == PaymentKindRefund {
		prefix = "RFD"
	}
	return fmt.Sprintf("%s_%d_%s", prefix, at.Unix(), strings.ToUpper(uuid.NewString()[:8]))
}
