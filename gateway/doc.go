// Package gateway assembles conversational context and routes each turn
// through one of two response contracts: free-form reply or schema-constrained
// structured extraction. It owns the priming variants injected at session
// creation, the per-request reap of idle sessions, and the commit discipline
// that keeps sessions consistent when a model call fails.
package gateway
