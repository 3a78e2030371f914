package serr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Error_Error(t *testing.T) {
	testCases := []struct {
		name   string
		err    Error
		expect string
	}{
		{
			name:   "message only",
			err:    New("could not do the thing"),
			expect: "could not do the thing",
		},
		{
			name:   "message with cause",
			err:    New("could not do the thing", errors.New("disk on fire")),
			expect: "could not do the thing: disk on fire",
		},
		{
			name:   "no message falls back to first cause",
			err:    New("", errors.New("disk on fire"), ErrDB),
			expect: "disk on fire",
		},
		{
			name:   "empty",
			err:    New(""),
			expect: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, tc.err.Error())
		})
	}
}

func Test_Error_Is(t *testing.T) {
	cause := errors.New("disk on fire")

	testCases := []struct {
		name   string
		err    Error
		target error
		expect bool
	}{
		{
			name:   "matches direct cause",
			err:    New("db problem", cause, ErrDB),
			target: ErrDB,
			expect: true,
		},
		{
			name:   "matches wrapped original error",
			err:    WrapDB("db problem", cause),
			target: cause,
			expect: true,
		},
		{
			name:   "WrapDB always matches ErrDB",
			err:    WrapDB("", cause),
			target: ErrDB,
			expect: true,
		},
		{
			name:   "does not match unrelated sentinel",
			err:    New("db problem", cause, ErrDB),
			target: ErrNotFound,
			expect: false,
		},
		{
			name:   "matches identical Error value",
			err:    New("db problem", ErrDB),
			target: New("db problem", ErrDB),
			expect: true,
		},
		{
			name:   "does not match Error with different message",
			err:    New("db problem", ErrDB),
			target: New("other problem", ErrDB),
			expect: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, errors.Is(tc.err, tc.target))
		})
	}
}
