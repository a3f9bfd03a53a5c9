package envelope

import "errors"

// Sentinel errors for the envelope package.
var (
	// ErrInvalidJSON is returned when the input is not valid JSON.
	ErrInvalidJSON = errors.New("envelope: invalid json")

	// ErrMissingCode is returned when an envelope has no code member.
	ErrMissingCode = errors.New("envelope: missing code")

	// ErrShapeMismatch is returned when a payload does not match the expected shape.
	ErrShapeMismatch = errors.New("envelope: shape mismatch")

	// ErrEmptyPayload is returned when a payload is required but the input is empty.
	ErrEmptyPayload = errors.New("envelope: empty payload")

	// ErrEncode is returned when a value cannot be marshaled.
	ErrEncode = errors.New("envelope: encode failed")

	// ErrFailed is returned by Envelope.Err for non-success envelopes.
	ErrFailed = errors.New("envelope: call failed")
)

// DecodeError reports a decoding failure together with the offending input.
type DecodeError struct {
	// Err is the classified cause; it wraps one of the sentinel errors.
	Err error

	// Raw is the input text, kept for diagnosis.
	Raw string
}

func (e *DecodeError) Error() string {
	return e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// AsDecodeError extracts a *DecodeError from err if present.
func AsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
