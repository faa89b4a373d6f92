package codes

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"lending/core"

	"github.com/stretchr/testify/assert"
	"github.com/twitchtv/twirp"
)

func TestFrom(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{core.ErrUnauthorized, http.StatusForbidden, "100002"},
		{core.ErrInvalidAmount, http.StatusBadRequest, "100101"},
		{core.ErrExceedsCapacity, http.StatusPreconditionFailed, "100104"},
		{fmt.Errorf("borrow: %w", core.ErrLoanHealthy), http.StatusPreconditionFailed, "100107"},
		{errors.New("db down"), http.StatusInternalServerError, ""},
	}

	for _, c := range cases {
		t.Run(c.err.Error(), func(t *testing.T) {
			twerr := From(c.err)
			assert.Equal(t, c.status, twirp.ServerHTTPStatusFromErrorCode(twerr.Code()))
			assert.Equal(t, c.code, twerr.Meta(CustomCodeKey))
		})
	}
}

func TestWith(t *testing.T) {
	err := With(twirp.InvalidArgumentError("amount", "malformed"), InvalidArguments)
	assert.Equal(t, "100001", err.(twirp.Error).Meta(CustomCodeKey))
	assert.Equal(t, InvalidArguments, Get(twirp.InvalidArgument))
	assert.Equal(t, http.StatusNotFound, Get(twirp.NotFound))
}
