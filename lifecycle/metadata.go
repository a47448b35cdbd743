package lifecycle

import (
	"encoding/json"
	"fmt"
	"time"
)

// PaymentMethod is how the cashier registered the payment.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentTransfer PaymentMethod = "TRANSFER"
)

func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	m := PaymentMethod(raw)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, raw)
	}
	return m, nil
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// Metadata is the typed view of the order's metadata blob. The blob itself is
// persisted as an opaque JSON string column rather than first-class schema
// fields; that layout is kept on purpose, so encoding/decoding happens only
// at the store boundary.
type Metadata struct {
	OrderNumber   string        `json:"orderNumber,omitempty"`
	Table         string        `json:"table,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
	PaidAt        *time.Time    `json:"paidAt,omitempty"`
}

// DecodeMetadata parses the stored blob. An empty blob decodes to the zero
// Metadata so older orders without one keep working.
func DecodeMetadata(blob string) (Metadata, error) {
	var m Metadata
	if blob == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(blob), &m); err != nil {
		return Metadata{}, fmt.Errorf("decode order metadata: %w", err)
	}
	return m, nil
}

// Encode serializes the metadata back into its blob form.
func (m Metadata) Encode() (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode order metadata: %w", err)
	}
	return string(data), nil
}
