package validation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// LineItem is a single priced entry of a checkout request.
// A nil field means the key was absent from the payload.
type LineItem struct {
	Price *decimal.Decimal `json:"price" validate:"required,gt=0"` // unit price
	Qty   *int64           `json:"qty" validate:"required,gt=0"`   // units ordered
}

// NewLineItem builds a LineItem with both fields present.
func NewLineItem(price, qty int64) LineItem {
	p := decimal.NewFromInt(price)
	return LineItem{Price: &p, Qty: &qty}
}

// UnmarshalJSON decodes an item, accepting price only as a JSON number.
func (it *LineItem) UnmarshalJSON(b []byte) error {
	var aux struct {
		Price json.RawMessage `json:"price"`
		Qty   *int64          `json:"qty"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*it = LineItem{Qty: aux.Qty}

	raw := bytes.TrimSpace(aux.Price)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		return fmt.Errorf("price must be a number, got %s", raw)
	}
	var price decimal.Decimal
	if err := price.UnmarshalJSON(raw); err != nil {
		return err
	}
	it.Price = &price
	return nil
}

// CheckoutRequest is the payload for POST /checkout.
// Unknown keys are ignored.
type CheckoutRequest struct {
	UserID   *UserID  `json:"user_id"`
	Items    ItemList `json:"items"`
	Coupon   *string  `json:"coupon,omitempty"`
	Currency *string  `json:"currency,omitempty"`
}

// UserID is an opaque scalar identifier echoed back verbatim.
type UserID struct {
	raw json.RawMessage
}

// NewUserID returns a string user identifier.
func NewUserID(id string) *UserID {
	raw, _ := json.Marshal(id)
	return &UserID{raw: raw}
}

func (u *UserID) UnmarshalJSON(b []byte) error {
	u.raw = append(u.raw[:0], bytes.TrimSpace(b)...)
	return nil
}

func (u UserID) MarshalJSON() ([]byte, error) {
	if len(u.raw) == 0 {
		return []byte("null"), nil
	}
	return u.raw, nil
}

// IsScalar reports whether the identifier is a string, number or bool.
func (u UserID) IsScalar() bool {
	if len(u.raw) == 0 {
		return false
	}
	switch u.raw[0] {
	case '{', '[', 'n':
		return false
	}
	return true
}

// String renders the identifier for use inside an order id.
func (u UserID) String() string {
	if len(u.raw) > 0 && u.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(u.raw, &s); err == nil {
			return s
		}
	}
	return string(u.raw)
}

// ItemList is the items field of a request. It remembers whether the key
// was present and whether its value was a JSON array, so a string or object
// is rejected instead of being coerced.
type ItemList struct {
	Items   []LineItem
	present bool
	list    bool
	raw     json.RawMessage
}

// Items returns a present, list-typed ItemList.
func Items(items ...LineItem) ItemList {
	if items == nil {
		items = []LineItem{}
	}
	return ItemList{Items: items, present: true, list: true}
}

// Present reports whether items was supplied and not null.
func (l ItemList) Present() bool { return l.present }

// IsList reports whether the supplied value was an array.
func (l ItemList) IsList() bool { return l.list }

func (l *ItemList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*l = ItemList{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	l.present = true
	if b[0] != '[' {
		l.raw = append(json.RawMessage(nil), b...)
		return nil
	}
	l.list = true
	l.Items = []LineItem{}
	return json.Unmarshal(b, &l.Items)
}

func (l ItemList) MarshalJSON() ([]byte, error) {
	switch {
	case !l.present:
		return []byte("null"), nil
	case !l.list:
		return l.raw, nil
	}
	return json.Marshal(l.Items)
}
