package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeOrderCreation     = "ORDER_CREATION_FAILED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeConflict          = "CONFLICT"
	CodeInternal          = "INTERNAL_ERROR"
)

var now = time.Now

func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// DecodeJSON reads the request body into dst. A malformed body becomes a
// ValidationError on the "body" field.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.NewValidationError("Validation failed", apperrors.ValidationDetail{
				Field:   "body",
				Message: "request body is required",
			})
		}
		return apperrors.NewValidationError("Validation failed", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
	}
	return nil
}

// WriteError maps err onto the error taxonomy. fallback is the client-facing
// message used for unexpected errors, whose details are only logged.
func WriteError(w http.ResponseWriter, traceID string, err error, fallback string, logger *zap.Logger) {
	status, resp := errorResponse(err, fallback)
	resp.TraceID = traceID

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("traceId", traceID), zap.String("code", resp.Code), zap.Error(err))
	} else {
		logger.Warn("request rejected", zap.String("traceId", traceID), zap.String("code", resp.Code), zap.Error(err))
	}

	WriteJSON(w, status, resp, logger)
}

func errorResponse(err error, fallback string) (int, dto.ErrorResponse) {
	resp := dto.ErrorResponse{Timestamp: now().UTC()}

	if ve, ok := apperrors.IsValidationError(err); ok {
		resp.Error, resp.Code, resp.Details = ve.Message, CodeValidation, ve.Details
		return http.StatusBadRequest, resp
	}
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		resp.Error, resp.Code = nfe.Message, CodeNotFound
		return http.StatusNotFound, resp
	}
	if _, ok := apperrors.IsInsufficientStockError(err); ok {
		resp.Error, resp.Code = "Insufficient stock", CodeInsufficientStock
		return http.StatusBadRequest, resp
	}
	if ue, ok := apperrors.IsUnauthorizedError(err); ok {
		resp.Error, resp.Code = ue.Message, CodeUnauthorized
		return http.StatusUnauthorized, resp
	}
	if ce, ok := apperrors.IsConflictError(err); ok {
		resp.Error, resp.Code = ce.Message, CodeConflict
		return http.StatusConflict, resp
	}
	if _, ok := apperrors.IsOrderCreationError(err); ok {
		resp.Error, resp.Code = "Failed to create order", CodeOrderCreation
		return http.StatusInternalServerError, resp
	}

	resp.Error, resp.Code = fallback, CodeInternal
	return http.StatusInternalServerError, resp
}
