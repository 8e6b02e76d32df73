package bookings

import "tourdesk/internal/pricing"

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

func (p PaymentStatus) String() string {
	return string(p)
}

// DerivePaymentStatus computes the payment status from the amounts on record.
// refunded is never derived; only a refund sets it.
func DerivePaymentStatus(paid, total float64) PaymentStatus {
	paid, total = pricing.Round2(paid), pricing.Round2(total)
	switch {
	case paid <= 0:
		return PaymentStatusUnpaid
	case paid >= total:
		return PaymentStatusPaid
	default:
		return PaymentStatusPartial
	}
}

type PaymentKind string

const (
	PaymentKindPayment PaymentKind = "PAYMENT"
	PaymentKindRefund  PaymentKind = "REFUND"
)
