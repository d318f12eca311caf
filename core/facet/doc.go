// Package facet models contact facets and the store that holds them.
//
// A facet is a named, typed attribute bundle attached to a contact (PersonalInfo,
// EmailList). The Store interface is the remote key/value store of facets keyed by
// contact id; sqlstore and objectstore implement it, and the collection package opens
// either one from a connection string.
//
// # Presence
//
// Load and Cached return (facet, ok, err). ok is false when the contact never had the
// facet, which is not an error.
//
// # Repository
//
// Repository combines a Store with the session tracker: it resolves the contact behind
// a session, saves facets, and reloads the session-cached facets after a write.
package facet
