// Package pricing holds the checkout pricing policy: coupon rules, tax and
// currency defaults. Amounts are whole units; every rate product is computed
// exactly and truncated toward zero.
package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-checkout-summary/internal/validation"
)

// Coupon codes
const (
	CouponSave10 = "SAVE10"
	CouponSave20 = "SAVE20"
	CouponVIP    = "VIP"
)

const DefaultCurrency = "USD"

var (
	DefaultTaxRate  = decimal.RequireFromString("0.21")
	Save10Rate      = decimal.RequireFromString("0.10")
	Save20RateBig   = decimal.RequireFromString("0.20")
	Save20RateSmall = decimal.RequireFromString("0.05")
)

const (
	Save20Threshold          = 200
	VIPThreshold             = 100
	VIPDiscountDefault       = 50
	VIPDiscountSmallSubtotal = 10
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// Policy is the set of knobs the calculator prices with. Rates must lie in
// [0, 1) so a rate product never exceeds the amount it is taken from.
type Policy struct {
	DefaultCurrency string
	TaxRate         decimal.Decimal

	Save10Rate      decimal.Decimal
	Save20RateBig   decimal.Decimal
	Save20RateSmall decimal.Decimal
	Save20Threshold int64

	VIPThreshold             int64
	VIPDiscountDefault       int64
	VIPDiscountSmallSubtotal int64
}

// DefaultPolicy returns the standard pricing policy.
func DefaultPolicy() Policy {
	return Policy{
		DefaultCurrency:          DefaultCurrency,
		TaxRate:                  DefaultTaxRate,
		Save10Rate:               Save10Rate,
		Save20RateBig:            Save20RateBig,
		Save20RateSmall:          Save20RateSmall,
		Save20Threshold:          Save20Threshold,
		VIPThreshold:             VIPThreshold,
		VIPDiscountDefault:       VIPDiscountDefault,
		VIPDiscountSmallSubtotal: VIPDiscountSmallSubtotal,
	}
}

// NormalizeCurrency returns the default currency when none was given and the
// given value untouched otherwise.
func (p Policy) NormalizeCurrency(currency *string) string {
	if currency == nil {
		return p.DefaultCurrency
	}
	return *currency
}

// Discount returns the absolute discount the coupon grants on subtotal.
// A nil or empty coupon grants nothing; an unrecognised one is rejected.
func (p Policy) Discount(subtotal int64, coupon *string) (int64, error) {
	if coupon == nil || *coupon == "" {
		return 0, nil
	}

	switch *coupon {
	case CouponSave10:
		return truncMul(subtotal, p.Save10Rate), nil
	case CouponSave20:
		if subtotal >= p.Save20Threshold {
			return truncMul(subtotal, p.Save20RateBig), nil
		}
		return truncMul(subtotal, p.Save20RateSmall), nil
	case CouponVIP:
		if subtotal < p.VIPThreshold {
			return p.VIPDiscountSmallSubtotal, nil
		}
		return p.VIPDiscountDefault, nil
	}
	return 0, validation.Fail(validation.ReasonUnknownCoupon)
}

// Tax returns the tax owed on amount.
func (p Policy) Tax(amount int64) int64 {
	return truncMul(amount, p.TaxRate)
}

// ApplyDiscount subtracts discount from subtotal, clamping at zero.
func ApplyDiscount(subtotal, discount int64) int64 {
	if total := subtotal - discount; total > 0 {
		return total
	}
	return 0
}

// Subtotal sums price*qty over items, truncating each line toward zero.
// Items must already be validated. A sum that does not fit in an int64 is
// rejected with ReasonAmountOutOfRange.
func Subtotal(items []validation.LineItem) (int64, error) {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(*it.Qty)).Truncate(0))
	}
	return toAmount(sum)
}

// Total adds tax to the discounted amount, rejecting a result past int64.
func Total(afterDiscount, tax int64) (int64, error) {
	return toAmount(decimal.NewFromInt(afterDiscount).Add(decimal.NewFromInt(tax)))
}

func toAmount(d decimal.Decimal) (int64, error) {
	if d.GreaterThan(maxAmount) || d.IsNegative() {
		return 0, validation.Fail(validation.ReasonAmountOutOfRange)
	}
	return d.IntPart(), nil
}

func truncMul(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).IntPart()
}
