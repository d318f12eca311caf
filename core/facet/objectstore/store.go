package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"profile-sync/core/facet"
	"profile-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

const jsonContentType = "application/json"

// Store implements facet.Store on an S3 compatible bucket. Layout:
//
//	contacts/<id>.json                     contact with identifiers
//	identifiers/<source>/<identifier>      contact id
//	facets/<id>/<key>.json                 facet payload
type Store struct {
	client storage.Client
	bucket string
}

// New creates a store over an existing client.
func New(client storage.Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// Open builds a MinIO client from the configuration.
func Open(cfg storage.Config) (*Store, error) {
	client, err := storage.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return New(client, cfg.Bucket), nil
}

func contactObject(id string) string {
	return "contacts/" + url.PathEscape(id) + ".json"
}

func identifierObject(source, identifier string) string {
	return "identifiers/" + url.PathEscape(source) + "/" + url.PathEscape(identifier)
}

func facetObject(contactID, key string) string {
	return "facets/" + url.PathEscape(contactID) + "/" + url.PathEscape(key) + ".json"
}

// GetContact implements facet.Store.
func (s *Store) GetContact(ctx context.Context, id string) (facet.Contact, error) {
	data, err := s.read(ctx, contactObject(id))
	if err != nil {
		return facet.Contact{}, err
	}
	var c facet.Contact
	if err := json.Unmarshal(data, &c); err != nil {
		return facet.Contact{}, fmt.Errorf("decode contact %s: %w", id, err)
	}
	return c, nil
}

// GetContactByIdentifier implements facet.Store.
func (s *Store) GetContactByIdentifier(ctx context.Context, source, identifier string) (facet.Contact, error) {
	data, err := s.read(ctx, identifierObject(source, identifier))
	if err != nil {
		return facet.Contact{}, err
	}
	return s.GetContact(ctx, strings.TrimSpace(string(data)))
}

// SaveContact implements facet.Store. There are no transactions across
// objects: identifiers are bound before the contact document is written.
func (s *Store) SaveContact(ctx context.Context, c facet.Contact) error {
	for _, id := range c.Identifiers {
		name := identifierObject(id.Source, id.Identifier)
		owner, err := s.read(ctx, name)
		switch {
		case errors.Is(err, facet.ErrNotFound):
			if err := s.write(ctx, name, []byte(c.ID), "text/plain"); err != nil {
				return err
			}
		case err != nil:
			return err
		case strings.TrimSpace(string(owner)) != c.ID:
			return fmt.Errorf("%w: %s", facet.ErrIdentifierConflict, id)
		}
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode contact %s: %w", c.ID, err)
	}
	return s.write(ctx, contactObject(c.ID), data, jsonContentType)
}

// LoadFacet implements facet.Store.
func (s *Store) LoadFacet(ctx context.Context, contactID, key string) ([]byte, error) {
	return s.read(ctx, facetObject(contactID, key))
}

// SaveFacet implements facet.Store.
func (s *Store) SaveFacet(ctx context.Context, contactID, key string, payload []byte) error {
	return s.write(ctx, facetObject(contactID, key), payload, jsonContentType)
}

// Close implements facet.Store. The MinIO client holds no connection of its own.
func (s *Store) Close() error {
	return nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context, region string) (bool, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return false, classify(fmt.Errorf("failed to check bucket existence: %w", err))
	}
	if exists {
		return false, nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return false, classify(fmt.Errorf("failed to create bucket %s: %w", s.bucket, err))
	}
	return true, nil
}

func (s *Store) read(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, classify(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, classify(err)
	}
	return data, nil
}

func (s *Store) write(ctx context.Context, name string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return classify(fmt.Errorf("put %s: %w", name, err))
	}
	return nil
}

// classify maps MinIO and transport errors onto the facet sentinels.
func classify(err error) error {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		switch {
		case resp.Code == "NoSuchKey":
			return facet.ErrNotFound
		case resp.StatusCode == http.StatusServiceUnavailable, resp.Code == "NoSuchBucket", resp.Code == "SlowDown":
			return facet.Unavailable(err)
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return facet.Unavailable(err)
	}
	return err
}
