package storage

// Config holds configuration for the storage provider.
// It is usually built from the collection connection string.
type Config struct {
	// Endpoint is the URL of the storage service.
	Endpoint string
	// AccessKey is the access key ID for authentication.
	AccessKey string
	// SecretKey is the secret access key for authentication.
	SecretKey string
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool
	// Bucket is the name of the bucket holding contacts and facets.
	Bucket string
	// Region is the location of the bucket (e.g., us-east-1).
	Region string
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int
}
