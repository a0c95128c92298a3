package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatraworks/yatra/internal/domain"
)

func TestQuote_ItemizedAmounts(t *testing.T) {
	// destination 1000, 2 adults, 1 child, 10% discount
	p, err := Quote(1000, 2, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, 2700.0, p.BasePrice)
	assert.Equal(t, 270.0, p.Discount)
	assert.Equal(t, 437.4, p.Taxes)
	assert.Equal(t, 2867.4, p.TotalAmount)
}

func TestQuote_NoDiscount(t *testing.T) {
	p, err := Quote(500, 1, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 500.0, p.BasePrice)
	assert.Equal(t, 0.0, p.Discount)
	assert.Equal(t, 90.0, p.Taxes)
	assert.Equal(t, 590.0, p.TotalAmount)
}

func TestQuote_Reconciles(t *testing.T) {
	cases := []struct {
		name     string
		price    float64
		adults   int
		children int
		discount float64
	}{
		{"single adult", 1234.56, 1, 0, 0},
		{"family", 999.99, 2, 3, 15},
		{"full discount", 800, 2, 0, 100},
		{"fractional price", 333.33, 3, 1, 7.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Quote(tc.price, tc.adults, tc.children, tc.discount)
			require.NoError(t, err)

			// totalAmount == basePrice - discount + taxes within rounding tolerance
			assert.InDelta(t, p.BasePrice-p.Discount+p.Taxes, p.TotalAmount, 0.01)
			assert.GreaterOrEqual(t, p.BasePrice, 0.0)
			assert.GreaterOrEqual(t, p.Discount, 0.0)
			assert.GreaterOrEqual(t, p.Taxes, 0.0)
			assert.GreaterOrEqual(t, p.TotalAmount, 0.0)
		})
	}
}

func TestQuote_ChildrenWeightedAt70Percent(t *testing.T) {
	adultsOnly, err := Quote(1000, 2, 0, 0)
	require.NoError(t, err)
	withChild, err := Quote(1000, 2, 1, 0)
	require.NoError(t, err)

	assert.Equal(t, adultsOnly.BasePrice+700, withChild.BasePrice)
}

func TestQuote_FailsClosed(t *testing.T) {
	cases := []struct {
		name     string
		price    float64
		adults   int
		children int
		discount float64
	}{
		{"discount above 100", 1000, 2, 0, 110},
		{"negative price", -1, 1, 0, 0},
		{"zero adults", 1000, 0, 0, 0},
		{"negative children", 1000, 1, -1, 0},
		{"negative discount", 1000, 1, 0, -5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Quote(tc.price, tc.adults, tc.children, tc.discount)
			assert.ErrorIs(t, err, domain.ErrNegativeAmount)
		})
	}
}
