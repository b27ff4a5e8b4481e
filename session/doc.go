// Package session houses the process-local session store. The Session struct
// and its invariants live in the core package to centralize domain contracts;
// this package owns lifecycle: lazy creation with generated identifiers,
// last-activity tracking, and TTL-based reaping of idle sessions.
//
// Sessions are deliberately volatile. A process restart loses all of them;
// they are ephemeral conversational context, not durable records.
package session
