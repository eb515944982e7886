package common

import (
	"errors"
	"fmt"
)

// The error kinds reported by the program, resource and composer packages. Every error returned
// by those packages wraps exactly one of these sentinels, so callers can branch with errors.Is.
var (
	// ErrType reports an argument of the wrong Go type (e.g. a texture passed as an index buffer).
	ErrType = errors.New("type error")

	// ErrValue reports an invalid enumerated value, a shape or dtype mismatch, or a malformed
	// shader source pairing.
	ErrValue = errors.New("value error")

	// ErrKey reports an operation on an unknown or non-settable variable name.
	ErrKey = errors.New("key error")

	// ErrRuntime reports structurally inconsistent state detected at draw time.
	ErrRuntime = errors.New("runtime error")
)

// TypeErrorf formats an error wrapping ErrType.
func TypeErrorf(format string, args ...any) error {
	return kindErrorf(ErrType, format, args...)
}

// ValueErrorf formats an error wrapping ErrValue.
func ValueErrorf(format string, args ...any) error {
	return kindErrorf(ErrValue, format, args...)
}

// KeyErrorf formats an error wrapping ErrKey.
func KeyErrorf(format string, args ...any) error {
	return kindErrorf(ErrKey, format, args...)
}

// RuntimeErrorf formats an error wrapping ErrRuntime.
func RuntimeErrorf(format string, args ...any) error {
	return kindErrorf(ErrRuntime, format, args...)
}

func kindErrorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
