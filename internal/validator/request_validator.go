package validator

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/juancollazo-ch/order-confirmation-service/internal/errors"
)

// ErrMissingParams is wrapped by the error returned when any confirmation
// parameter is absent.
var ErrMissingParams = errors.New("missing parameters")

// RequestValidator checks the confirmation parameters taken from the page URL.
// Values are presence-checked only; their content is forwarded untouched.
type RequestValidator struct {
	required []string
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		required: []string{"orderId", "itemId", "action"},
	}
}

// ConfirmRequest represents the request structure for validation
type ConfirmRequest interface {
	GetOrderID() string
	GetItemID() string
	GetAction() string
}

// ValidateRequest returns an *errors.AppError (validation) naming the missing keys.
func (v *RequestValidator) ValidateRequest(req ConfirmRequest) error {
	values := map[string]string{
		"orderId": req.GetOrderID(),
		"itemId":  req.GetItemID(),
		"action":  req.GetAction(),
	}

	var missing []string
	for _, name := range v.required {
		if values[name] == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	joined := strings.Join(missing, ", ")
	return apperrors.ErrValidation(joined, fmt.Errorf("%w: %s", ErrMissingParams, joined))
}
