// Package session tracks live visitor sessions.
//
// A Session is the in-memory representation of one visit: the contact it is bound to,
// the identifiers the contact is known by, and the facets cached for the visit. Sessions
// are held by a Tracker; RedisTracker stores them as JSON with a sliding TTL.
//
// Sessions never write facets themselves. The facet repository reloads the cached
// bundle after every facet write.
package session
