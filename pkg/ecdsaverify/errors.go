package ecdsaverify

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidEncoding is returned for a malformed key prefix or a point that is not on the curve.
	ErrInvalidEncoding = errors.New("invalid public key encoding")

	// ErrInvalidParity is returned when v is outside {0, 1, 27, 28}.
	ErrInvalidParity = errors.New("invalid recovery parity")

	// ErrInvalidRecovery marks a single recovery trial that cannot produce a key.
	ErrInvalidRecovery = errors.New("invalid recovery")

	// ErrInvalidHex is returned for text that is not valid hex.
	ErrInvalidHex = errors.New("invalid hex string")
)

// LengthError reports a byte buffer whose size is not one of the accepted sizes.
type LengthError struct {
	What     string // What was being decoded ("public key", "signature", ...)
	Got      int    // Actual length in bytes
	Expected []int  // Accepted lengths in bytes
}

func (e *LengthError) Error() string {
	if len(e.Expected) == 1 {
		return fmt.Sprintf("invalid %s length: got %d bytes, expected %d", e.What, e.Got, e.Expected[0])
	}
	return fmt.Sprintf("invalid %s length: got %d bytes, expected one of %v", e.What, e.Got, e.Expected)
}

// IsLengthError reports whether err is, or wraps, a *LengthError.
func IsLengthError(err error) bool {
	var lerr *LengthError
	return errors.As(err, &lerr)
}
