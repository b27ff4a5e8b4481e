// Package core provides the foundational domain types used by deskbrief. It
// defines the core abstractions for:
//
//   - Contents (role-attributed turns composed of typed content parts)
//   - Sessions (stateful conversational containers with an ordered turn history)
//   - The error taxonomy shared by the session store, gateway and transport
//
// The package intentionally keeps implementation concerns (storage, model
// backends, transport) out of scope so that higher layers depend only on
// small domain contracts.
package core
