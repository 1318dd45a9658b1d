// Package uitransport defines the contract between the UI builder and the
// windowing/event transport that turns declarative element descriptions into
// on-screen elements.
//
// # Why a Separate Package
//
// The builder in internal/ui and the transports (internal/inmemoryui,
// internal/socketui) both need the same vocabulary: widget kinds, element
// roles, template names and event operations. Keeping it here lets either
// side change without importing the other.
//
// # Vocabulary
//
// Templates are instantiated under a parent at an index; the template's root
// element carries that index and its sub-elements are found again by role.
// Roles and template names are an opaque vocabulary agreed with the
// transport; this package fixes their spelling.
package uitransport
