package domain

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return PaymentStatus(s), true
	default:
		return "", false
	}
}

type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodPaypal       PaymentMethod = "paypal"
	MethodBankTransfer PaymentMethod = "bank_transfer"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case MethodCreditCard, MethodPaypal, MethodBankTransfer:
		return PaymentMethod(s), true
	default:
		return "", false
	}
}

type Payment struct {
	ID             int64         `json:"id"`
	BookingID      int64         `json:"booking_id"`
	Amount         int64         `json:"amount"` // cents, must equal booking total
	TransactionRef *string       `json:"transaction_ref,omitempty"`
	Status         PaymentStatus `json:"status"`
	Method         PaymentMethod `json:"payment_method"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type PaymentCreateReq struct {
	BookingID int64  `json:"booking_id"`
	Method    string `json:"payment_method"`
	// Amount is optional; when omitted the booking total is charged.
	Amount *int64 `json:"amount,omitempty"`
}

type PaymentFilter struct {
	Status  *PaymentStatus
	Method  *PaymentMethod
	OrderBy string // created, -created, amount, -amount
	Limit   int
	Offset  int
}
