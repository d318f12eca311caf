// Package utils provides loose type conversion helpers used when reading
// untyped configuration values.
package utils
