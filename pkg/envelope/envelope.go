package envelope

import (
	"fmt"
)

// Conventional envelope codes.
const (
	SuccessCode = 200
	FailCode    = 500
)

// Envelope is the {code, msg, data} wrapper returned by every operation.
// Envelopes are values: build a new one instead of mutating a received one.
type Envelope[T any] struct {
	Data T      `json:"data,omitempty"`
	Msg  string `json:"msg,omitempty"`
	Code int    `json:"code"`
}

// Result is the envelope every admin operation returns.
type Result = Envelope[string]

// OK returns a success envelope without payload.
func OK() Result {
	return Result{Code: SuccessCode}
}

// Success returns a success envelope carrying data.
func Success[T any](data T) Envelope[T] {
	return Envelope[T]{Code: SuccessCode, Data: data}
}

// Fail returns a failure envelope with the given message.
func Fail(msg string) Result {
	return Result{Code: FailCode, Msg: msg}
}

// Failf returns a failure envelope with a formatted message.
func Failf(format string, args ...any) Result {
	return Fail(fmt.Sprintf(format, args...))
}

// IsSuccess reports whether the envelope carries the success code.
func (e Envelope[T]) IsSuccess() bool {
	return e.Code == SuccessCode
}

// Err returns nil for a success envelope and an error wrapping ErrFailed otherwise.
func (e Envelope[T]) Err() error {
	if e.IsSuccess() {
		return nil
	}
	if e.Msg == "" {
		return fmt.Errorf("%w: code %d", ErrFailed, e.Code)
	}
	return fmt.Errorf("%w: code %d: %s", ErrFailed, e.Code, e.Msg)
}
