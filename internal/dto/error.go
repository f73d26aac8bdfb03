package dto

import (
	"time"

	apperrors "storefront/internal/errors"
)

type ErrorResponse struct {
	TraceID   string                       `json:"traceId,omitempty"`
	Error     string                       `json:"error"`
	Code      string                       `json:"code"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

// MessageError is the bare body used outside the typed error mapping, such
// as unknown routes and rate limiting.
type MessageError struct {
	Error string `json:"error"`
}
