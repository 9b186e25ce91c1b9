package rleimg

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// CodecError is the error type returned by every function in this module that
// validates rasters or frames. Use [errors.Is] against the Err* kinds below to
// find out what went wrong.
type CodecError interface {
	error
	WithMessage(message string) CodecError
	Wrap(err error) CodecError
}

type baseCodecError string

const rootError = baseCodecError("")

// ErrInvalidInput is returned for empty rasters, mismatched dimensions, and
// runs that can't describe any pixels.
var ErrInvalidInput = rootError.WithMessage("Invalid input")

// ErrValueOverflow is returned by the encoder when a header or entry field
// doesn't fit in its width on the wire.
var ErrValueOverflow = rootError.WithMessage("Value too large for defined data type")

// ErrTruncatedOrCorruptFrame is returned by the decoder for any structurally
// invalid frame.
var ErrTruncatedOrCorruptFrame = rootError.WithMessage("Truncated or corrupt frame")

// ErrFrameTooLarge is returned by the decoder when a frame header describes
// more pixels than the caller is willing to allocate.
var ErrFrameTooLarge = rootError.WithMessage("Frame too large")

func (e baseCodecError) Error() string {
	return string(e)
}

func (e baseCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       message,
		originalError: e,
	}
}

// Wrap attaches an underlying cause, typically an I/O error hit while reading a
// frame, to one of the codec's error kinds.
func (e baseCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customCodecError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customCodecError) Error() string {
	return e.message
}

func (e customCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

// Wrap returns a new error whose message combines this error's message with
// err's, and which matches both this error and err under [errors.Is].
func (e customCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customCodecError) Unwrap() error {
	return e.originalError
}
