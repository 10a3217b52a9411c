// Package audit carries security incidents from the tenant-isolation
// pipeline to whatever backend persists them.
//
// The package deliberately knows nothing about tenants or HTTP: it receives
// fully-populated Incident values and delivers them. Two properties shape the
// design:
//
//  1. Recording must never fail or slow down the request that produced the
//     incident. The AsyncSink decorator buffers delivery on a background
//     worker, and any incident that cannot be delivered (full buffer, failing
//     backend, shutdown) is logged locally instead of being propagated as an
//     error to the request path.
//
//  2. An incident must never alias live request state. Incident is a plain
//     value struct; callers populate it by copying fields out of the request
//     before any asynchronous hand-off, and the worker delivers against a
//     detached context.
//
// # Usage
//
//	sink, closeSink := audit.NewAsyncSink(audit.NewSlogSink(logger), audit.AsyncOptions{})
//	defer closeSink(context.Background())
//
//	sink.Record(ctx, audit.Incident{
//		Kind:     "tenant_mismatch",
//		Severity: audit.SeverityCritical,
//	})
//
// NewSlogSink is both the default backend and the fallback destination;
// persistent backends implement the Sink interface.
package audit
