package validation

import (
	"errors"
	"reflect"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// New returns a validator that understands decimal.Decimal fields.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// decimals validate by sign; only gt=0 is ever applied to them
	v.RegisterCustomTypeFunc(decimalSign, decimal.Decimal{})

	return v
}

func decimalSign(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return int64(d.Sign())
	}
	return nil
}

// ValidateRequest checks req in a fixed order: user_id, then items, then each
// item in sequence. It returns the items unchanged when everything passes.
func ValidateRequest(v *validatorv10.Validate, req CheckoutRequest) ([]LineItem, error) {
	if req.UserID == nil {
		return nil, Fail(ReasonUserIDRequired)
	}
	if !req.UserID.IsScalar() {
		return nil, Fail(ReasonUserIDScalar)
	}

	if !req.Items.Present() {
		return nil, Fail(ReasonItemsRequired)
	}
	if !req.Items.IsList() {
		return nil, Fail(ReasonItemsNotList)
	}
	if len(req.Items.Items) == 0 {
		return nil, Fail(ReasonItemsEmpty)
	}

	for _, it := range req.Items.Items {
		if err := validateItem(v, it); err != nil {
			return nil, err
		}
	}
	return req.Items.Items, nil
}

// validateItem maps validator field errors onto the item reasons. A missing
// field wins over a non-positive one, and price is reported before qty.
func validateItem(v *validatorv10.Validate, it LineItem) error {
	err := v.Struct(it)
	if err == nil {
		return nil
	}

	var fieldErrs validatorv10.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Reason: ReasonMalformed, Err: err}
	}

	var priceBad, qtyBad bool
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return Fail(ReasonItemFields)
		}
		switch fe.StructField() {
		case "Price":
			priceBad = true
		case "Qty":
			qtyBad = true
		}
	}
	if priceBad {
		return Fail(ReasonPriceNotPositive)
	}
	if qtyBad {
		return Fail(ReasonQtyNotPositive)
	}
	return &ValidationError{Reason: ReasonMalformed, Err: err}
}
