package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "product not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading product: %w", NewNotFoundError("product not found"))

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "product not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "customer.email", Message: "must be a valid email"},
		{Field: "quantity", Message: "is required"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Same(t, err, ve)
}

func TestInsufficientStockError_Message(t *testing.T) {
	err := NewInsufficientStockError("p-1", 3, 1)
	assert.Equal(t, "insufficient stock for product p-1: requested 3, available 1", err.Error())

	err = NewInsufficientStockError("p-1", 3, -1)
	assert.Equal(t, "insufficient stock for product p-1: requested 3", err.Error())

	ise, ok := IsInsufficientStockError(fmt.Errorf("wrap: %w", err))
	assert.True(t, ok)
	assert.Equal(t, 3, ise.Requested)
}

func TestOrderCreationError_Unwrap(t *testing.T) {
	cause := errors.New("duplicate entry")
	err := NewOrderCreationError("failed to create order item", cause)

	assert.Contains(t, err.Error(), "failed to create order item")
	assert.Contains(t, err.Error(), "duplicate entry")
	assert.True(t, errors.Is(err, cause))

	_, ok := IsOrderCreationError(err)
	assert.True(t, ok)
}

func TestUnauthorizedAndConflict(t *testing.T) {
	_, ok := IsUnauthorizedError(NewUnauthorizedError("Unauthorized"))
	assert.True(t, ok)

	_, ok = IsConflictError(NewConflictError("duplicate slug"))
	assert.True(t, ok)

	_, ok = IsConflictError(NewUnauthorizedError("Unauthorized"))
	assert.False(t, ok)
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
