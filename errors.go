package mmgrid

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of
// these, so callers can classify failures with errors.Is.
var (
	ErrLatitudeRange        = errors.New("Latitude must be between -90 and 90 degrees")
	ErrLongitudeRange       = errors.New("Longitude must be between -180 and 180 degrees")
	ErrUnrecognizedFormat   = errors.New("unrecognized coordinate format")
	ErrUnsupportedPrecision = errors.New("unsupported grid precision")
	ErrUnresolvableZone     = errors.New("unresolvable grid zone")
	ErrConversion           = errors.New("conversion error")
)

// ErrorKind names the class of a conversion failure.
type ErrorKind string

// Error kinds reported by ErrorKindOf.
const (
	KindNone                     ErrorKind = ""
	KindOutOfRangeLatitude       ErrorKind = "OutOfRangeLatitude"
	KindOutOfRangeLongitude      ErrorKind = "OutOfRangeLongitude"
	KindUnrecognizedFormat       ErrorKind = "UnrecognizedFormat"
	KindUnsupportedGridPrecision ErrorKind = "UnsupportedGridPrecision"
	KindUnresolvableGridZone     ErrorKind = "UnresolvableGridZone"
	KindGenericConversionError   ErrorKind = "GenericConversionError"
)

// ErrorKindOf classifies err. Errors not produced by this package are
// reported as generic conversion errors.
func ErrorKindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrLatitudeRange):
		return KindOutOfRangeLatitude
	case errors.Is(err, ErrLongitudeRange):
		return KindOutOfRangeLongitude
	case errors.Is(err, ErrUnrecognizedFormat):
		return KindUnrecognizedFormat
	case errors.Is(err, ErrUnsupportedPrecision):
		return KindUnsupportedGridPrecision
	case errors.Is(err, ErrUnresolvableZone):
		return KindUnresolvableGridZone
	}
	return KindGenericConversionError
}

// conversionError carries a user facing message while still matching its
// kind with errors.Is.
type conversionError struct {
	kind error
	msg  string
}

func (e *conversionError) Error() string { return e.msg }
func (e *conversionError) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...interface{}) error {
	return &conversionError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
