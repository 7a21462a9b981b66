package validation

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Bind reads the request body and parses it into a CheckoutRequest.
// If the body cannot be read or parsed, it writes a 400 response and returns
// an error for the handler to short-circuit.
func Bind(c *gin.Context) (CheckoutRequest, error) {
	body, err := c.GetRawData()
	if err != nil {
		err = &ValidationError{Reason: ReasonMalformed, Err: err}
		WriteError(c, err)
		return CheckoutRequest{}, err
	}

	req, err := ParseRequest(body)
	if err != nil {
		WriteError(c, err)
		return CheckoutRequest{}, err
	}
	return req, nil
}

// WriteError writes a 400 for a ValidationError and a 500 for anything else.
func WriteError(c *gin.Context, err error) {
	reason, ok := ReasonOf(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "validation_failed",
		"reason": string(reason),
	})
}
