// Package objectstore implements the facet store on S3 compatible object
// storage, one JSON object per contact and per facet.
package objectstore
