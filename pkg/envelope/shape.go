package envelope

import "fmt"

// Kind classifies a payload shape.
type Kind uint8

const (
	// KindScalar is any JSON value decoded without a schema
	// (string, bool, json.Number, nested []any / map[string]any).
	KindScalar Kind = iota
	// KindList is a JSON array whose items follow Elem.
	KindList
	// KindMap is a JSON object with string keys whose values follow Elem.
	KindMap
	// KindRecord is a JSON object decoded into the value produced by New.
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindRecord:
		return "record"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Shape is a runtime description of a payload.
// The zero Shape is an untyped scalar.
type Shape struct {
	// Elem describes list items or map values. Nil means untyped.
	Elem *Shape

	// New returns a pointer to a fresh record for KindRecord.
	New func() any

	Kind Kind
}

// ScalarShape describes an untyped JSON value.
func ScalarShape() Shape {
	return Shape{Kind: KindScalar}
}

// ListOf describes an array of elem.
func ListOf(elem Shape) Shape {
	return Shape{Kind: KindList, Elem: &elem}
}

// MapOf describes an object with string keys. A nil elem leaves values untyped.
func MapOf(elem *Shape) Shape {
	return Shape{Kind: KindMap, Elem: elem}
}

// RecordOf describes a JSON object decoded into a *T.
func RecordOf[T any]() Shape {
	return Shape{Kind: KindRecord, New: func() any { return new(T) }}
}

func (s Shape) elem() Shape {
	if s.Elem == nil {
		return ScalarShape()
	}
	return *s.Elem
}

func (s Shape) String() string {
	switch s.Kind {
	case KindList:
		return "list<" + s.elem().String() + ">"
	case KindMap:
		return "map<string," + s.elem().String() + ">"
	case KindRecord:
		if s.New == nil {
			return "record<?>"
		}
		return fmt.Sprintf("record<%T>", s.New())
	default:
		return s.Kind.String()
	}
}
