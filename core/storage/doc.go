// Package storage abstracts the S3 compatible object storage used by the object facet store.
//
// Client is the narrow set of MinIO operations the facet store needs. NewClient builds a
// MinIO client with strict transport timeouts; the mocks subpackage provides a testify
// mock for unit tests.
//
// # Usage
//
//	client, err := storage.NewClient(storage.Config{Endpoint: "localhost:9000", Bucket: "xdb"})
//	if err != nil {
//	    return err
//	}
//	exists, err := client.BucketExists(ctx, "xdb")
package storage
