// Package logging provides a tiny abstraction over slog so downstream code can
// depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. A NoOpLogger is provided for tests and for components
// that should stay silent.
package logging
