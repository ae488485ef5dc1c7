package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAssetNotFound   = errors.New("asset not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrOrderNotFound   = errors.New("payment order not found")
	ErrPackageNotFound = errors.New("package not found")

	ErrDuplicateRequest  = errors.New("asset already requested")
	ErrAlreadyDecided    = errors.New("request already processed")
	ErrAlreadyRegistered = errors.New("account already registered")
	ErrNotEligible       = errors.New("request is not eligible for return")

	ErrOutOfStock        = errors.New("asset out of stock")
	ErrStockInUse        = errors.New("units to remove are reserved or assigned")
	ErrSeatLimitExceeded = errors.New("package limit exceeded, please upgrade package")

	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")

	ErrPaymentProvider     = errors.New("payment provider failure")
	ErrPaymentNotCompleted = errors.New("payment not completed")
)

// ErrorKind groups errors by how a caller is expected to react to them
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindConflict
	KindResourceExhausted
	KindUnauthenticated
	KindForbidden
	KindInvalid
	KindExternal
	KindPaymentRequired
	KindInconsistency
)

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) ErrorKind {
	var inc *InconsistencyError
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &inc):
		return KindInconsistency
	case errors.Is(err, ErrAssetNotFound), errors.Is(err, ErrRequestNotFound),
		errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrPackageNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateRequest), errors.Is(err, ErrAlreadyDecided),
		errors.Is(err, ErrAlreadyRegistered), errors.Is(err, ErrNotEligible),
		errors.Is(err, ErrStockInUse):
		return KindConflict
	case errors.Is(err, ErrOutOfStock), errors.Is(err, ErrSeatLimitExceeded):
		return KindResourceExhausted
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrInvalidInput):
		return KindInvalid
	case errors.Is(err, ErrPaymentNotCompleted):
		return KindPaymentRequired
	case errors.Is(err, ErrPaymentProvider):
		return KindExternal
	default:
		return KindInternal
	}
}

// IsBusinessRule reports whether err is an expected outcome returned to the
// actor as-is rather than an operational failure.
func IsBusinessRule(err error) bool {
	switch KindOf(err) {
	case KindNotFound, KindConflict, KindResourceExhausted, KindForbidden,
		KindUnauthenticated, KindInvalid, KindPaymentRequired:
		return true
	}
	return false
}

// InconsistencyError reports that a multi-record operation stopped half way
// and its compensation failed too. Op names the operation, Entity/EntityID the
// record left in the wrong state, Cause the failure that triggered compensation.
type InconsistencyError struct {
	Op       string
	Entity   string
	EntityID string
	Cause    error
	Err      error
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("%s: %s %s left inconsistent: %v (compensation: %v)", e.Op, e.Entity, e.EntityID, e.Cause, e.Err)
}

func (e *InconsistencyError) Unwrap() error {
	return e.Err
}
