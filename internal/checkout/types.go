package checkout

import "github.com/imrishuroy/go-checkout-summary/internal/validation"

// Response is the computed order summary.
type Response struct {
	OrderID    string            `json:"order_id"`
	UserID     validation.UserID `json:"user_id"` // echoed from the request
	Currency   string            `json:"currency"`
	Subtotal   int64             `json:"subtotal"`
	Discount   int64             `json:"discount"`
	Tax        int64             `json:"tax"`
	Total      int64             `json:"total"`
	ItemsCount int               `json:"items_count"`
}
