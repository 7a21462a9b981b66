package validation

import "errors"

// Reason is the enumerated cause carried by a ValidationError.
type Reason string

const (
	ReasonUserIDRequired   Reason = "user_id required"
	ReasonUserIDScalar     Reason = "user_id must be a scalar"
	ReasonItemsRequired    Reason = "items required"
	ReasonItemsNotList     Reason = "items must be a list"
	ReasonItemsEmpty       Reason = "items must not be empty"
	ReasonItemFields       Reason = "item must have price and qty"
	ReasonPriceNotPositive Reason = "price must be positive"
	ReasonQtyNotPositive   Reason = "qty must be positive"
	ReasonUnknownCoupon    Reason = "unknown coupon"
	ReasonMalformed        Reason = "invalid request body"
	ReasonAmountOutOfRange Reason = "amount out of range"
)

// ValidationError rejects a checkout request. Err holds the decode cause, if any.
type ValidationError struct {
	Reason Reason
	Err    error
}

func (e *ValidationError) Error() string { return string(e.Reason) }

func (e *ValidationError) Unwrap() error { return e.Err }

// Fail returns a ValidationError for reason.
func Fail(reason Reason) error {
	return &ValidationError{Reason: reason}
}

// ReasonOf reports the reason of err when it is (or wraps) a ValidationError.
func ReasonOf(err error) (Reason, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	return "", false
}
