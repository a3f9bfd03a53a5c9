// Package transport performs the single HTTP POST exchange used by the
// admin/executor RPC layer.
//
// Each call dials its own connection, writes an optional JSON body, checks
// that the status is 200 and reads the whole response into memory. Nothing
// is pooled or reused between calls, so a [Client] is safe for concurrent
// use and holds only read-only configuration.
//
// # Timeouts
//
// Connecting (TCP plus TLS handshake) is bounded by the connect timeout,
// 3 seconds unless changed with [WithConnectTimeout]. Every socket read is
// bounded by the per-call timeout passed to [Client.Post] (3 seconds when
// zero). A peer that stops answering fails the call with [ErrTimeout]; the
// caller's context can cancel earlier.
//
// # TLS
//
// Certificates are verified by default. Executor fleets running self-signed
// certificates opt in to trusting any certificate and host name explicitly:
//
//	client := transport.New(transport.WithInsecureSkipVerify())
//
// # Errors
//
// All failures are returned as [*RemoteCallError] carrying the URL. Use
// errors.Is with [ErrRequest], [ErrTimeout], [ErrStatus] or
// [ErrResponseTooLarge] to classify them. A non-200 response is never
// parsed.
package transport
