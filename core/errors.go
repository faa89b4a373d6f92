package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorized caller lacks the admin or owner role
	ErrUnauthorized ErrorCode = 100002

	// ErrInvalidAmount non-positive or malformed amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrInsufficientBalance balance lower than the requested movement
	ErrInsufficientBalance ErrorCode = 100102
	// ErrInsufficientAllowance allowance lower than the requested pull
	ErrInsufficientAllowance ErrorCode = 100103
	// ErrExceedsCapacity debt would exceed the borrow capacity
	ErrExceedsCapacity ErrorCode = 100104
	// ErrExceedsDebt repay larger than the debt
	ErrExceedsDebt ErrorCode = 100105
	// ErrUnsafeRatio remaining collateral would not cover the debt
	ErrUnsafeRatio ErrorCode = 100106
	// ErrLoanHealthy loan is not liquidatable
	ErrLoanHealthy ErrorCode = 100107
)

var errorMessages = map[ErrorCode]string{
	ErrUnknown:               "unknown error",
	ErrUnauthorized:          "unauthorized",
	ErrInvalidAmount:         "invalid amount",
	ErrInsufficientBalance:   "insufficient balance",
	ErrInsufficientAllowance: "insufficient allowance",
	ErrExceedsCapacity:       "exceeds borrow capacity",
	ErrExceedsDebt:           "exceeds debt",
	ErrUnsafeRatio:           "unsafe collateral ratio",
	ErrLoanHealthy:           "loan is healthy",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}

	return e.String()
}
