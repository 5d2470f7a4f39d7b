// Package model implements the entity model: typed, polymorphic entities
// and their stubs, with lossless conversion between Go values, JSON
// documents and graph statements.
//
// Kinds form two single-inheritance trees rooted at Thing and ThingStub.
// Every Go entity type embeds its parent's struct, and each kind declares
// only its own fields; a kind's full field set is its ancestors' fields
// followed by its own. Specialization points are closed unions expressed as
// interfaces with unexported methods (ThingLike, CreativeWorkLike,
// ThingStubLike, ...).
//
// Decoding through a kind with descendants is an ordered fallback: each
// child subtree is tried depth first in declaration order, then the kind
// itself, and the first success wins. Graph decoding selects kinds by their
// rdf:type statements; JSON decoding by the "type" discriminator.
//
// Identifiers are assigned once. A missing identifier is generated on first
// read: a fresh local reference, or for content-addressed kinds an IRI of
// the form urn:<Kind>:<sha256 hex> computed from the entity's fields.
//
// Decoding rules:
//
//   - a required field that is missing or malformed fails the entity;
//   - an absent optional field is left nil, a malformed one fails the entity
//     when read from a graph and is dropped when it is an embedded entity in
//     a JSON document;
//   - list elements that fail to decode are dropped.
//
// The package performs no I/O and starts no goroutines.
package model
