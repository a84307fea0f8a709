package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var Unauthorized = NewUnauthorizedError("authentication required")

// Request & Input-Validation Errors
var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrInvalidField     = errors.New("invalid field")
	ErrInvalidID        = errors.New("invalid id")
)

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMalformedPayload,
		Details:    fmt.Sprintf("Malformed %s payload", payloadType),
		Cause:      cause,
		Field:      "payload",
	}
}

// NewValidationError reports every invalid field of a payload at once.
func NewValidationError(payloadType string, problems []FieldProblem) *ApiErr {
	e := &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidField,
		Details:    fmt.Sprintf("Invalid %s data", payloadType),
		Fields:     problems,
	}
	if len(problems) > 0 {
		e.Field = problems[0].Field
	}
	return e
}

func NewInvalidIDError(raw string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidID,
		Details:    fmt.Sprintf("%q is not a valid id", raw),
		Field:      "id",
	}
}

func IsInvalidFieldError(err error) bool {
	return errors.Is(err, ErrInvalidField)
}
