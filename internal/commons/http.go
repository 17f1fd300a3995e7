package commons

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"supplyhub/internal/dto"
	apperrors "supplyhub/internal/errors"
)

type traceKey struct{}

// WithTraceID stores the request trace id used in responses and logs.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceID returns the request trace id, generating one when the request
// did not pass through the tracing middleware.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeAndValidate reads a JSON body into dst and runs its validate tags.
// Failures are returned as *errors.ValidationError.
func DecodeAndValidate(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
	}
	return ValidateStruct(dst)
}

func ValidateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validating request: %w", err)
	}

	details := make([]apperrors.ValidationDetail, 0, len(validationErrors))
	for _, fe := range validationErrors {
		details = append(details, apperrors.ValidationDetail{
			Field:   trimNamespace(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return apperrors.NewValidationError("validation failed", details...)
}

func trimNamespace(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "unique":
		return "must not contain duplicated " + fe.Param()
	case "uuid":
		return "must be a valid UUID"
	}
	return "failed " + fe.Tag() + " validation"
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// WriteError maps a use case error to its HTTP status and error code.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	resp := dto.ErrorResponse{
		TraceID:   TraceID(r.Context()),
		OrderID:   chi.URLParam(r, "orderId"),
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	}

	if ve, ok := apperrors.IsValidationError(err); ok {
		resp.Status, resp.Code, resp.Details = http.StatusBadRequest, "VALIDATION_ERROR", ve.Details
	} else if _, ok := apperrors.IsNotFoundError(err); ok {
		resp.Status, resp.Code = http.StatusNotFound, "NOT_FOUND"
	} else if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		resp.Status, resp.Code, resp.ProductID = http.StatusConflict, "INSUFFICIENT_STOCK", ise.ProductID
	} else if ite, ok := apperrors.IsInvalidTransitionError(err); ok {
		resp.Status, resp.Code = http.StatusConflict, string(ite.Code)
	} else if _, ok := apperrors.IsConflictError(err); ok {
		resp.Status, resp.Code = http.StatusConflict, "CONFLICT"
	} else if _, ok := apperrors.IsUnauthorizedError(err); ok {
		resp.Status, resp.Code = http.StatusUnauthorized, "UNAUTHORIZED"
	} else if _, ok := apperrors.IsForbiddenError(err); ok {
		resp.Status, resp.Code = http.StatusForbidden, "FORBIDDEN"
	} else if _, ok := apperrors.IsDeadlockError(err); ok {
		resp.Status, resp.Code = http.StatusConflict, "DEADLOCK"
	} else if _, ok := apperrors.IsStoreUnavailableError(err); ok {
		logger.Error("store unavailable", zap.String("traceId", resp.TraceID), zap.Error(err))
		resp.Status, resp.Code, resp.Message = http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "the store is temporarily unavailable"
	} else {
		logger.Error("unexpected error", zap.String("traceId", resp.TraceID), zap.Error(err))
		resp.Status, resp.Code, resp.Message = http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred"
	}

	WriteJSON(w, resp.Status, resp, logger)
}
