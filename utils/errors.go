package utils

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindSessionNotFound      ErrorKind = "SESSION_NOT_FOUND"
	KindSessionClosed        ErrorKind = "SESSION_CLOSED"
	KindSessionAlreadyClosed ErrorKind = "SESSION_ALREADY_CLOSED"
	KindPendingOrdersExist   ErrorKind = "PENDING_ORDERS_EXIST"
	KindTableNotFound        ErrorKind = "TABLE_NOT_FOUND"
	KindTableInactive        ErrorKind = "TABLE_INACTIVE"
	KindNoValidOtp           ErrorKind = "NO_VALID_OTP"
	KindOtpExpired           ErrorKind = "OTP_EXPIRED"
	KindInvalidOtp           ErrorKind = "INVALID_OTP"
	KindOtpAttemptsExceeded  ErrorKind = "OTP_ATTEMPTS_EXCEEDED"
	KindBranchMismatch       ErrorKind = "BRANCH_MISMATCH"
	KindItemNotFound         ErrorKind = "ITEM_NOT_FOUND"
	KindPortionNotFound      ErrorKind = "PORTION_NOT_FOUND"
	KindInvalidOrderInput    ErrorKind = "INVALID_ORDER_INPUT"
	KindOrderNotFound        ErrorKind = "ORDER_NOT_FOUND"
	KindInvalidTransition    ErrorKind = "INVALID_TRANSITION"
	KindInsufficientRole     ErrorKind = "INSUFFICIENT_ROLE"
	KindUnauthorized         ErrorKind = "UNAUTHORIZED"
	KindInvalidInput         ErrorKind = "INVALID_INPUT"
	KindRateLimited          ErrorKind = "RATE_LIMITED"
	KindInternal             ErrorKind = "INTERNAL"
)

// AppError is a classified failure. Kind is stable and safe to show to
// clients; Err keeps the underlying cause for logs.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure (store I/O, broken invariants).
func Internal(err error, op string) *AppError {
	return &AppError{Kind: KindInternal, Message: op + " failed", Err: err}
}

// KindOf returns the kind of the first AppError in err's chain, or an empty
// kind when err is nil, or KindInternal when err is unclassified.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

func StatusCode(kind ErrorKind) int {
	switch kind {
	case KindSessionNotFound, KindTableNotFound, KindItemNotFound, KindPortionNotFound, KindOrderNotFound:
		return http.StatusNotFound
	case KindSessionClosed, KindSessionAlreadyClosed, KindPendingOrdersExist, KindInvalidTransition, KindTableInactive:
		return http.StatusConflict
	case KindInvalidOrderInput, KindInvalidInput:
		return http.StatusBadRequest
	case KindNoValidOtp, KindOtpExpired, KindInvalidOtp, KindUnauthorized:
		return http.StatusUnauthorized
	case KindBranchMismatch, KindInsufficientRole:
		return http.StatusForbidden
	case KindOtpAttemptsExceeded, KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
