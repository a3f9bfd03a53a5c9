package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Encode marshals v to JSON.
func Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return data, nil
}

// DecodeValue decodes a bare payload (no envelope) described by s.
// Records come back as the pointer produced by s.New, lists as []any,
// maps as map[string]any and numbers inside untyped values as json.Number.
func DecodeValue(data []byte, s Shape) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &DecodeError{Err: ErrEmptyPayload, Raw: string(data)}
	}
	if !json.Valid(trimmed) {
		return nil, &DecodeError{Err: ErrInvalidJSON, Raw: string(data)}
	}

	v, err := decodeRaw(trimmed, s)
	if err != nil {
		return nil, &DecodeError{Err: err, Raw: string(data)}
	}
	return v, nil
}

// wireEnvelope is the undecoded form of an envelope.
type wireEnvelope struct {
	Code *int            `json:"code"`
	Msg  *string         `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// Decode decodes an envelope whose data member is described by s.
func Decode(data []byte, s Shape) (Envelope[any], error) {
	w, err := decodeWire(data)
	if err != nil {
		return Envelope[any]{}, err
	}

	out := Envelope[any]{Code: *w.Code}
	if w.Msg != nil {
		out.Msg = *w.Msg
	}
	if len(w.Data) > 0 {
		v, err := decodeRaw(w.Data, s)
		if err != nil {
			return Envelope[any]{}, &DecodeError{Err: err, Raw: string(data)}
		}
		out.Data = v
	}
	return out, nil
}

// DecodeAs decodes an envelope whose data member is a T.
func DecodeAs[T any](data []byte) (Envelope[T], error) {
	w, err := decodeWire(data)
	if err != nil {
		return Envelope[T]{}, err
	}

	out := Envelope[T]{Code: *w.Code}
	if w.Msg != nil {
		out.Msg = *w.Msg
	}
	if len(w.Data) > 0 && !isNull(w.Data) {
		if err := json.Unmarshal(w.Data, &out.Data); err != nil {
			return Envelope[T]{}, &DecodeError{Err: errors.Join(ErrShapeMismatch, err), Raw: string(data)}
		}
	}
	return out, nil
}

func decodeWire(data []byte) (*wireEnvelope, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &DecodeError{Err: ErrEmptyPayload, Raw: string(data)}
	}
	if !json.Valid(trimmed) {
		return nil, &DecodeError{Err: ErrInvalidJSON, Raw: string(data)}
	}

	var w wireEnvelope
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return nil, &DecodeError{Err: errors.Join(ErrShapeMismatch, err), Raw: string(data)}
	}
	if w.Code == nil {
		return nil, &DecodeError{Err: ErrMissingCode, Raw: string(data)}
	}
	return &w, nil
}

func decodeRaw(raw json.RawMessage, s Shape) (any, error) {
	if isNull(raw) {
		return nil, nil
	}

	switch s.Kind {
	case KindScalar:
		var v any
		if err := unmarshalNumber(raw, &v); err != nil {
			return nil, errors.Join(ErrShapeMismatch, err)
		}
		return v, nil

	case KindList:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: want %s: %w", ErrShapeMismatch, s, err)
		}
		elem := s.elem()
		out := make([]any, 0, len(items))
		for i, item := range items {
			v, err := decodeRaw(item, elem)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil

	case KindMap:
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("%w: want %s: %w", ErrShapeMismatch, s, err)
		}
		elem := s.elem()
		out := make(map[string]any, len(fields))
		for k, field := range fields {
			v, err := decodeRaw(field, elem)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = v
		}
		return out, nil

	case KindRecord:
		if s.New == nil {
			return nil, fmt.Errorf("%w: record shape without constructor", ErrShapeMismatch)
		}
		target := s.New()
		if err := json.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("%w: want %s: %w", ErrShapeMismatch, s, err)
		}
		return target, nil

	default:
		return nil, fmt.Errorf("%w: unsupported %s", ErrShapeMismatch, s.Kind)
	}
}

func unmarshalNumber(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
