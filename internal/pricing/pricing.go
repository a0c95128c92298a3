// Package pricing computes the monetary quote for a booking. The quote is
// calculated once at creation time and stored on the booking; it is never
// recomputed on update.
package pricing

import (
	"math"

	"github.com/yatraworks/yatra/internal/domain"
)

const (
	// childRate weights children at 70% of the adult price. Fixed business
	// rule, not configurable per call.
	childRate = 0.7
	// taxRate is the 18% consumption tax applied after discount.
	taxRate = 0.18
)

// Quote computes the itemized amounts for a booking.
//
//	basePrice   = destinationPrice * (adults + children*0.7)
//	discount    = basePrice * discountPercent / 100
//	taxes       = (basePrice - discount) * 0.18
//	totalAmount = basePrice - discount + taxes
//
// All amounts are rounded to two decimal places at the point of storage.
// A negative result indicates a caller error (discountPercent > 100) and
// fails closed with domain.ErrNegativeAmount rather than clamping.
func Quote(destinationPrice float64, adults, children int, discountPercent float64) (domain.Pricing, error) {
	if destinationPrice < 0 || adults < 1 || children < 0 || discountPercent < 0 {
		return domain.Pricing{}, domain.ErrNegativeAmount
	}

	basePrice := destinationPrice * (float64(adults) + float64(children)*childRate)
	discountAmount := basePrice * discountPercent / 100
	taxable := basePrice - discountAmount
	taxes := taxable * taxRate
	total := taxable + taxes

	if taxable < 0 || total < 0 {
		return domain.Pricing{}, domain.ErrNegativeAmount
	}

	return domain.Pricing{
		BasePrice:   round2(basePrice),
		Discount:    round2(discountAmount),
		Taxes:       round2(taxes),
		TotalAmount: round2(total),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
