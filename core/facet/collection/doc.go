// Package collection turns the xconnect.collection connection string into a
// facet store, choosing the SQL or object storage backend by scheme.
package collection
