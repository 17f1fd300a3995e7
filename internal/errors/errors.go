package errors

import (
	"context"
	"database/sql/driver"
	stderrors "errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if stderrors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

// InsufficientStockError reports the first product whose available quantity
// could not cover the requested quantity.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("cannot fulfill order: insufficient stock for product %d (requested %d, available %d)",
		e.ProductID, e.Requested, e.Available)
}

func NewInsufficientStockError(productID int64, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID: productID,
		Requested: requested,
		Available: available,
	}
}

func IsInsufficientStockError(err error) (*InsufficientStockError, bool) {
	var ise *InsufficientStockError
	if stderrors.As(err, &ise) {
		return ise, true
	}
	return nil, false
}

type TransitionCode string

const (
	TransitionAlreadyPaid      TransitionCode = "ALREADY_PAID"
	TransitionPaymentRequired  TransitionCode = "PAYMENT_REQUIRED"
	TransitionAlreadyShipped   TransitionCode = "ALREADY_SHIPPED"
	TransitionAlreadyDelivered TransitionCode = "ALREADY_DELIVERED"
)

type InvalidTransitionError struct {
	Code    TransitionCode
	Message string
}

func (e *InvalidTransitionError) Error() string {
	return e.Message
}

func NewInvalidTransitionError(code TransitionCode, message string) *InvalidTransitionError {
	return &InvalidTransitionError{Code: code, Message: message}
}

func NewAlreadyPaidError(orderID string) *InvalidTransitionError {
	return NewInvalidTransitionError(TransitionAlreadyPaid, fmt.Sprintf("order %s has already been processed for payment", orderID))
}

func NewPaymentRequiredError(orderID string) *InvalidTransitionError {
	return NewInvalidTransitionError(TransitionPaymentRequired, fmt.Sprintf("order %s must be paid first", orderID))
}

func IsInvalidTransitionError(err error) (*InvalidTransitionError, bool) {
	var ite *InvalidTransitionError
	if stderrors.As(err, &ite) {
		return ite, true
	}
	return nil, false
}

// HasTransitionCode reports whether err is an InvalidTransitionError with the given code.
func HasTransitionCode(err error, code TransitionCode) bool {
	ite, ok := IsInvalidTransitionError(err)
	return ok && ite.Code == code
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

func IsUnauthorizedError(err error) (*UnauthorizedError, bool) {
	var ue *UnauthorizedError
	if stderrors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func IsForbiddenError(err error) (*ForbiddenError, bool) {
	var fe *ForbiddenError
	if stderrors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

type DeadlockError struct {
	Message string
}

func (e *DeadlockError) Error() string {
	return e.Message
}

func NewDeadlockError(message string) *DeadlockError {
	return &DeadlockError{Message: message}
}

func IsDeadlockError(err error) (*DeadlockError, bool) {
	var de *DeadlockError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// StoreUnavailableError marks a failure to reach the transactional backend.
// The core never retries it; the caller or transport layer does.
type StoreUnavailableError struct {
	Message string
	Cause   error
}

func (e *StoreUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Cause
}

func NewStoreUnavailableError(message string, cause error) *StoreUnavailableError {
	return &StoreUnavailableError{Message: message, Cause: cause}
}

func IsStoreUnavailableError(err error) (*StoreUnavailableError, bool) {
	var sue *StoreUnavailableError
	if stderrors.As(err, &sue) {
		return sue, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

// IsMySQLDeadlock reports a deadlock (1213) or lock wait timeout (1205).
func IsMySQLDeadlock(err error) bool {
	var mysqlErr *mysql.MySQLError
	if stderrors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}

// IsConnectionFailure reports errors that mean the store could not be reached.
func IsConnectionFailure(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, driver.ErrBadConn) || stderrors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var opErr *net.OpError
	return stderrors.As(err, &opErr)
}

// ClassifyStoreError wraps connection failures as StoreUnavailableError and
// leaves every other error untouched.
func ClassifyStoreError(message string, err error) error {
	if IsConnectionFailure(err) {
		return NewStoreUnavailableError(message, err)
	}
	return err
}
