package facet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"profile-sync/core/session"
)

var (
	// ErrNotFound is returned when a contact or facet does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable marks failures to reach the collection backend at all.
	ErrUnavailable = errors.New("collection unavailable")
	// ErrIdentifierConflict is returned when an identifier already belongs to another contact.
	ErrIdentifierConflict = errors.New("identifier bound to another contact")
)

// Contact is the durable identity record of a visitor.
type Contact struct {
	ID          string               `json:"id"`
	Identifiers []session.Identifier `json:"identifiers"`
}

// Store is the remote facet store.
type Store interface {
	// GetContact returns the contact with the given id or ErrNotFound.
	GetContact(ctx context.Context, id string) (Contact, error)
	// GetContactByIdentifier resolves a contact through one of its identifiers.
	GetContactByIdentifier(ctx context.Context, source, identifier string) (Contact, error)
	// SaveContact creates or updates a contact and binds its identifiers.
	SaveContact(ctx context.Context, c Contact) error
	// LoadFacet returns the raw payload of a facet or ErrNotFound.
	LoadFacet(ctx context.Context, contactID, key string) ([]byte, error)
	// SaveFacet replaces the payload of a facet.
	SaveFacet(ctx context.Context, contactID, key string, payload []byte) error
	// Close releases the client.
	Close() error
}

// Opener hands out scoped store clients.
type Opener interface {
	Open(ctx context.Context) (Store, error)
}

// Facet is a named, typed attribute bundle attached to a contact.
type Facet interface {
	FacetKey() string
}

// Unavailable wraps err so that it matches ErrUnavailable.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// Decode parses a raw facet payload.
func Decode[T Facet](raw []byte) (T, error) {
	var f T
	if err := json.Unmarshal(raw, &f); err != nil {
		return f, fmt.Errorf("decode facet %s: %w", f.FacetKey(), err)
	}
	return f, nil
}

// Load reads a typed facet from the store. The boolean is false when the
// contact has no such facet.
func Load[T Facet](ctx context.Context, s Store, contactID string) (T, bool, error) {
	var zero T
	raw, err := s.LoadFacet(ctx, contactID, zero.FacetKey())
	if errors.Is(err, ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	f, err := Decode[T](raw)
	if err != nil {
		return zero, false, err
	}
	return f, true, nil
}

// Cached reads a typed facet from the session cache.
func Cached[T Facet](sess *session.Session) (T, bool, error) {
	var zero T
	raw, ok := sess.CachedFacet(zero.FacetKey())
	if !ok {
		return zero, false, nil
	}
	f, err := Decode[T](raw)
	if err != nil {
		return zero, false, err
	}
	return f, true, nil
}

// Save writes a typed facet to the store.
func Save(ctx context.Context, s Store, contactID string, f Facet) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode facet %s: %w", f.FacetKey(), err)
	}
	return s.SaveFacet(ctx, contactID, f.FacetKey(), payload)
}
