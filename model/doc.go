// Package model defines the normalized request/response contract between the
// gateway and concrete model backends, plus a deterministic MockModel for
// tests and local development. Provider adapters (gemini, openai, anthropic)
// live in sub-packages so only the wiring layer decides which backend to
// instantiate.
package model
