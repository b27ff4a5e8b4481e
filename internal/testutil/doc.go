// Package testutil provides shared helpers for tests: a scripted model
// backend with queued replies and failure injection, plus small content
// builders. Kept internal so production code cannot depend on it.
package testutil
