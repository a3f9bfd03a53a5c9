package adminbiz

import (
	"context"

	"github.com/dmitrymomot/jobrpc/pkg/envelope"
)

// AdminBiz is the operation set the admin service offers executors.
// Implementations report every outcome, including failures, as an envelope.
type AdminBiz interface {
	// Callback reports a batch of execution results.
	Callback(ctx context.Context, params []HandleCallbackParam) envelope.Result

	// Registry registers or refreshes a node.
	Registry(ctx context.Context, param RegistryParam) envelope.Result

	// RegistryRemove deregisters a node.
	RegistryRemove(ctx context.Context, param RegistryParam) envelope.Result

	// AddJob creates a job definition.
	AddJob(ctx context.Context, job JobInfo) envelope.Result

	// UpdateJob replaces a job definition.
	UpdateJob(ctx context.Context, job JobInfo) envelope.Result

	// RemoveJob deletes a job by id.
	RemoveJob(ctx context.Context, id int) envelope.Result

	// StartJob enables scheduling of a job by id.
	StartJob(ctx context.Context, id int) envelope.Result

	// StopJob disables scheduling of a job by id.
	StopJob(ctx context.Context, id int) envelope.Result
}
