package codes

import (
	"errors"
	"strconv"

	"lending/core"

	"github.com/twitchtv/twirp"
)

const (
	// CustomCodeKey code key
	CustomCodeKey = "custom_code"

	// InvalidArguments invalid arguments
	InvalidArguments = 100001
)

// With with specified error
func With(err error, code int) error {
	twerr, ok := err.(twirp.Error)
	if !ok {
		twerr = twirp.InternalErrorWith(err)
	}

	return twerr.WithMeta(CustomCodeKey, strconv.Itoa(code))
}

// Get get error code
func Get(code twirp.ErrorCode) int {
	switch code {
	case twirp.InvalidArgument:
		return InvalidArguments
	default:
		return twirp.ServerHTTPStatusFromErrorCode(code)
	}
}

// From convert a ledger error into a twirp error carrying its numeric code;
// other errors become internal errors
func From(err error) twirp.Error {
	if twerr, ok := err.(twirp.Error); ok {
		return twerr
	}

	var code core.ErrorCode
	if !errors.As(err, &code) {
		return twirp.InternalErrorWith(err)
	}

	var twcode twirp.ErrorCode
	switch code {
	case core.ErrUnauthorized:
		twcode = twirp.PermissionDenied
	case core.ErrInvalidAmount:
		twcode = twirp.InvalidArgument
	case core.ErrInsufficientBalance,
		core.ErrInsufficientAllowance,
		core.ErrExceedsCapacity,
		core.ErrExceedsDebt,
		core.ErrUnsafeRatio,
		core.ErrLoanHealthy:
		twcode = twirp.FailedPrecondition
	default:
		twcode = twirp.Internal
	}

	return twirp.NewError(twcode, code.Error()).WithMeta(CustomCodeKey, code.String())
}
