// Package sigdispatch owns the process-scoped signal dispatch table.
//
// A Dispatcher is populated once at startup with per-signal callback slots
// and a set of shutdown signals. Delivery never unwinds the stack: when a
// shutdown signal arrives its callback runs and a structured Reason is
// handed to the run loop, which performs orderly teardown itself.
//
// Policy: a shutdown callback cannot veto termination. The callback runs,
// its outcome is logged, and the Reason is emitted regardless.
package sigdispatch
