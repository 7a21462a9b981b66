package checkout

import (
	"strconv"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-checkout-summary/internal/pricing"
	"github.com/imrishuroy/go-checkout-summary/internal/validation"
)

// Calculator turns a checkout request into an order summary. It holds no
// per-call state and is safe for concurrent use.
type Calculator struct {
	validate *validatorv10.Validate
	policy   pricing.Policy
}

// NewCalculator returns a Calculator pricing with policy.
func NewCalculator(policy pricing.Policy) *Calculator {
	return &Calculator{
		validate: validation.New(),
		policy:   policy,
	}
}

// Process validates req and computes its summary. Every failure is a
// *validation.ValidationError; no partial summary is returned.
func (c *Calculator) Process(req validation.CheckoutRequest) (*Response, error) {
	items, err := validation.ValidateRequest(c.validate, req)
	if err != nil {
		return nil, err
	}
	currency := c.policy.NormalizeCurrency(req.Currency)

	subtotal, err := pricing.Subtotal(items)
	if err != nil {
		return nil, err
	}
	discount, err := c.policy.Discount(subtotal, req.Coupon)
	if err != nil {
		return nil, err
	}

	afterDiscount := pricing.ApplyDiscount(subtotal, discount)
	tax := c.policy.Tax(afterDiscount)
	total, err := pricing.Total(afterDiscount, tax)
	if err != nil {
		return nil, err
	}

	return &Response{
		OrderID:    OrderID(*req.UserID, len(items)),
		UserID:     *req.UserID,
		Currency:   currency,
		Subtotal:   subtotal,
		Discount:   discount,
		Tax:        tax,
		Total:      total,
		ItemsCount: len(items),
	}, nil
}

// OrderID labels an order as "<user>-<count>-X". It is deterministic and
// not unique across calls with the same user and item count.
func OrderID(userID validation.UserID, itemsCount int) string {
	return userID.String() + "-" + strconv.Itoa(itemsCount) + "-" + "X"
}
