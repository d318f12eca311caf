// Package models holds the request and response types of the profile feature.
package models
