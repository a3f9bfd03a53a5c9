// Package callback applies execution callbacks reported by executors.
//
// Executors report results in batches; each record updates one execution
// log. A [Sink] accepts a batch and returns once it is safely handed off:
//
//   - [Direct] applies every record synchronously before returning.
//   - [Queue] enqueues one River job per record in PostgreSQL and applies
//     them from background workers, retrying transient failures.
//
// Records whose log is missing or already has a result are logged and
// dropped; they never fail the batch.
//
//	queue, err := callback.NewQueue(pool, store, callback.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	if err := callback.Migrate(ctx, pool); err != nil {
//	    return err
//	}
//	// queue.Start as a startup hook, queue.Shutdown() as a shutdown hook
package callback
