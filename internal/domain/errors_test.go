package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	cause := errors.New("boom")

	cases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"transport", &TransportError{Op: "fetch weather", Err: cause}, ErrTransport},
		{"decode", &DecodeError{Op: "decode weather", Err: cause}, ErrDecode},
		{"geocode", &GeocodeError{Coordinate: Coordinate{Lat: 1, Lon: 2}}, ErrGeocode},
		{"icon", &IconFetchError{Icon: "01d", Err: cause}, ErrIconFetch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("chain: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.sentinel)
			assert.NotErrorIs(t, wrapped, ErrPermissionDenied)
		})
	}
}

func TestTypedErrorsUnwrapCause(t *testing.T) {
	err := &TransportError{Op: "fetch weather", Err: context.DeadlineExceeded}
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var te *TransportError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &te))
	assert.Equal(t, "fetch weather", te.Op)
}

func TestIconFetchError_Message(t *testing.T) {
	err := &IconFetchError{Icon: "10n", Err: errors.New("status 404")}
	assert.Equal(t, `icon fetch failed for "10n": status 404`, err.Error())
}
