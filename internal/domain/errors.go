package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Typed errors below match them
// through errors.Is.
var (
	ErrTransport        = errors.New("transport error")
	ErrDecode           = errors.New("decode error")
	ErrPermissionDenied = errors.New("location permission denied")
	ErrNotFound         = errors.New("no matching place found")
	ErrGeocode          = errors.New("reverse geocoding returned no result")
	ErrIconFetch        = errors.New("icon fetch failed")
)

// TransportError reports a network-level failure (DNS, refused, timeout).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// DecodeError reports a body that could not be parsed into the expected shape.
// Err carries the parser's own error.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrDecode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// GeocodeError reports a reverse geocoding lookup without any result.
type GeocodeError struct {
	Coordinate Coordinate
	Err        error
}

func (e *GeocodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s at %.6f,%.6f", ErrGeocode, e.Coordinate.Lat, e.Coordinate.Lon)
	}
	return fmt.Sprintf("%s at %.6f,%.6f: %v", ErrGeocode, e.Coordinate.Lat, e.Coordinate.Lon, e.Err)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

func (e *GeocodeError) Is(target error) bool { return target == ErrGeocode }

// IconFetchError reports that neither the cache nor the network produced an
// image for Icon.
type IconFetchError struct {
	Icon IconID
	Err  error
}

func (e *IconFetchError) Error() string {
	return fmt.Sprintf("%s for %q: %v", ErrIconFetch, e.Icon, e.Err)
}

func (e *IconFetchError) Unwrap() error { return e.Err }

func (e *IconFetchError) Is(target error) bool { return target == ErrIconFetch }
