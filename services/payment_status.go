package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// Payment statuses
const (
	PaymentPaid    = "PAID"
	PaymentPartial = "PARTIAL"
	PaymentUnpaid  = "UNPAID"
)

const paymentEntrySeparator = ", "

var paymentTolerance = decimal.NewFromFloat(0.01)

var errMalformedPaymentType = errors.New("malformed payment type")

// PaymentEntry is one "method:amount" pair of a payment-type string.
type PaymentEntry struct {
	Type   string  `json:"type" binding:"required"`
	Amount float64 `json:"amount" binding:"gte=0"`
}

// PaymentStatus is derived on read, never stored.
type PaymentStatus struct {
	Status           string         `json:"status"`
	TotalPaid        float64        `json:"total_paid"`
	RemainingAmount  float64        `json:"remaining_amount"`
	PaymentBreakdown []PaymentEntry `json:"payment_breakdown"`
}

// CalculatePaymentStatus classifies how much of totalAmount the payment-type
// string covers. An amount that is not a number counts as 0; a segment with
// no ":" makes the whole string unreadable and the order reads as unpaid.
func CalculatePaymentStatus(paymentType string, totalAmount float64) PaymentStatus {
	if strings.TrimSpace(paymentType) == "" {
		return unpaidStatus(totalAmount)
	}

	entries, err := ParsePaymentType(paymentType)
	if err != nil {
		utils.InfoLogger.Warnf("Unreadable payment type %q: %v", paymentType, err)
		return unpaidStatus(totalAmount)
	}

	total := decimal.NewFromFloat(totalAmount)
	paid := decimal.Zero
	for _, e := range entries {
		paid = paid.Add(decimal.NewFromFloat(e.Amount))
	}

	remaining := decimal.Max(decimal.Zero, total.Sub(paid))

	status := PaymentPartial
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		status = PaymentUnpaid
	case total.Sub(paid).Abs().LessThanOrEqual(paymentTolerance):
		status = PaymentPaid
	}

	return PaymentStatus{
		Status:           status,
		TotalPaid:        paid.InexactFloat64(),
		RemainingAmount:  remaining.InexactFloat64(),
		PaymentBreakdown: entries,
	}
}

// ParsePaymentType splits "cash:10.00, card:5.50" into entries, keeping
// input order.
func ParsePaymentType(paymentType string) ([]PaymentEntry, error) {
	entries := make([]PaymentEntry, 0)
	for _, segment := range strings.Split(paymentType, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		method, rawAmount, ok := strings.Cut(segment, ":")
		if !ok {
			return nil, fmt.Errorf("%w: segment %q has no amount", errMalformedPaymentType, segment)
		}

		entries = append(entries, PaymentEntry{
			Type:   strings.TrimSpace(method),
			Amount: parsePaymentAmount(method, rawAmount),
		})
	}
	return entries, nil
}

// EncodePaymentType writes entries in the stored "method:amount, ..." form.
func EncodePaymentType(entries []PaymentEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		method := strings.TrimSpace(e.Type)
		if method == "" {
			continue
		}
		parts = append(parts, method+":"+decimal.NewFromFloat(e.Amount).StringFixed(2))
	}
	if len(parts) == 0 {
		return models.PaymentTypePending
	}
	return strings.Join(parts, paymentEntrySeparator)
}

// IsPendingPayment reports whether nobody has recorded a payment yet.
func IsPendingPayment(paymentType string) bool {
	pt := strings.TrimSpace(paymentType)
	return pt == "" || strings.EqualFold(pt, models.PaymentTypePending)
}

func parsePaymentAmount(method, raw string) float64 {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		utils.InfoLogger.Warnf("Invalid amount %q for payment method %q, counting 0", raw, strings.TrimSpace(method))
		return 0
	}
	return amount
}

func unpaidStatus(totalAmount float64) PaymentStatus {
	return PaymentStatus{
		Status:           PaymentUnpaid,
		TotalPaid:        0,
		RemainingAmount:  totalAmount,
		PaymentBreakdown: []PaymentEntry{},
	}
}
