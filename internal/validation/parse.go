package validation

import "encoding/json"

// ParseRequest decodes a loosely-typed checkout payload. Only user_id, items,
// coupon and currency are read; other keys are ignored. A body that is not a
// JSON object, or whose known fields carry the wrong JSON type, fails with
// ReasonMalformed.
func ParseRequest(data []byte) (CheckoutRequest, error) {
	var req CheckoutRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return CheckoutRequest{}, &ValidationError{Reason: ReasonMalformed, Err: err}
	}
	return req, nil
}
