// Package knowledge compiles structured organizational records into the
// single textual briefing injected into every new session. Each source
// document is optional and loaded independently: a missing or malformed file
// is logged and skipped, never aborting compilation of the others. Compile
// itself is a pure function — identical sources always yield byte-identical
// briefing text.
package knowledge
