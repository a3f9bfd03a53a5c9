// Package envelope implements the JSON wrapper exchanged between the admin
// service and executors.
//
// Every operation answers with the same three-member object:
//
//	{"code": 200, "msg": "optional text", "data": <payload>}
//
// Code 200 means success by convention, 500 means failure. A missing data
// member means "no payload".
//
// # Encoding
//
// [Encode] marshals any in-memory value (request records, id maps,
// envelopes). The constructors [OK], [Success], [Fail] and [Failf] build
// envelopes without touching field names.
//
// # Decoding
//
// Payload shapes are described at the call site with a [Shape] value rather
// than a dedicated decoder per concrete type:
//
//	// a list of records
//	v, err := envelope.DecodeValue(body, envelope.ListOf(envelope.RecordOf[adminbiz.HandleCallbackParam]()))
//
//	// an untyped key/value mapping, numbers kept exact as json.Number
//	v, err := envelope.DecodeValue(body, envelope.MapOf(nil))
//
// [Decode] does the same for a full envelope, and [DecodeAs] is the
// compile-time generic variant for callers that know T statically.
//
// # Errors
//
// Decoding failures are reported as [*DecodeError] carrying the raw text.
// Use errors.Is with [ErrInvalidJSON], [ErrMissingCode], [ErrShapeMismatch]
// or [ErrEmptyPayload] to classify them.
package envelope
