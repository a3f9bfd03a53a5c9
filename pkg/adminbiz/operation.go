package adminbiz

import (
	"fmt"
	"slices"
)

// Operation names one entry of the fixed dispatch table.
type Operation string

// The closed set of operations.
const (
	OpRegistry       Operation = "registry"
	OpRegistryRemove Operation = "registryRemove"
	OpCallback       Operation = "callback"
	OpAddJob         Operation = "addXxlJob"
	OpUpdateJob      Operation = "updateXxlJob"
	OpRemoveJob      Operation = "removeXxlJob"
	OpStartJob       Operation = "startXxlJob"
	OpStopJob        Operation = "stopXxlJob"
)

var operations = []Operation{
	OpRegistry,
	OpRegistryRemove,
	OpCallback,
	OpAddJob,
	OpUpdateJob,
	OpRemoveJob,
	OpStartJob,
	OpStopJob,
}

// Operations returns every operation in dispatch-table order.
func Operations() []Operation {
	return slices.Clone(operations)
}

// Valid reports whether op belongs to the closed set. Matching is case-sensitive.
func (op Operation) Valid() bool {
	return slices.Contains(operations, op)
}

func (op Operation) String() string {
	return string(op)
}

// Path returns the endpoint path relative to the admin base URL.
func (op Operation) Path() string {
	return "api/" + string(op)
}

// ParseOperation converts a URI token to an Operation.
func ParseOperation(token string) (Operation, error) {
	op := Operation(token)
	if !op.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, token)
	}
	return op, nil
}
