package facet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"profile-sync/core/session"

	"go.uber.org/zap"
)

// Repository reads and writes the facets of the contact behind a session and
// keeps the session cache coherent with the store.
type Repository struct {
	store         Store
	tracker       session.Tracker
	sessionFacets []string
	logger        *zap.Logger
}

// NewRepository creates a repository. sessionFacets lists the facet keys that
// are cached in the session on reload.
func NewRepository(store Store, tracker session.Tracker, sessionFacets []string, logger *zap.Logger) *Repository {
	return &Repository{
		store:         store,
		tracker:       tracker,
		sessionFacets: sessionFacets,
		logger:        logger,
	}
}

// Store returns the underlying facet store.
func (r *Repository) Store() Store {
	return r.store
}

// CurrentContact returns the contact behind the session. A contact the store
// does not know yet is returned unsaved, carrying the session identifiers.
func (r *Repository) CurrentContact(ctx context.Context, sess *session.Session) (Contact, error) {
	contact, err := r.store.GetContact(ctx, sess.ContactID)
	if errors.Is(err, ErrNotFound) {
		return Contact{ID: sess.ContactID, Identifiers: append([]session.Identifier(nil), sess.Identifiers...)}, nil
	}
	if err != nil {
		return Contact{}, fmt.Errorf("get contact %s: %w", sess.ContactID, err)
	}
	contact.Identifiers = MergeIdentifiers(sess.Identifiers, contact.Identifiers)
	return contact, nil
}

// SaveFacet stores the contact and then the facet.
func (r *Repository) SaveFacet(ctx context.Context, contact Contact, f Facet) error {
	if err := r.store.SaveContact(ctx, contact); err != nil {
		return fmt.Errorf("save contact %s: %w", contact.ID, err)
	}
	if err := Save(ctx, r.store, contact.ID, f); err != nil {
		return fmt.Errorf("save facet %s: %w", f.FacetKey(), err)
	}
	r.logger.Debug("Facet saved", zap.String("contact_id", contact.ID), zap.String("facet", f.FacetKey()))
	return nil
}

// ReloadCurrentContact refreshes the session-cached facets from the store and
// persists the session. The store never invalidates session caches on its own.
func (r *Repository) ReloadCurrentContact(ctx context.Context, sess *session.Session) error {
	facets := make(map[string]json.RawMessage, len(r.sessionFacets))
	for _, key := range r.sessionFacets {
		raw, err := r.store.LoadFacet(ctx, sess.ContactID, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reload facet %s: %w", key, err)
		}
		facets[key] = json.RawMessage(raw)
	}
	sess.ReplaceFacets(facets)

	if err := r.tracker.Save(ctx, sess); err != nil {
		return fmt.Errorf("reload session: %w", err)
	}
	return nil
}

// ContactByIdentifier resolves a stored contact by identifier.
func (r *Repository) ContactByIdentifier(ctx context.Context, source, identifier string) (Contact, bool, error) {
	contact, err := r.store.GetContactByIdentifier(ctx, source, identifier)
	if errors.Is(err, ErrNotFound) {
		return Contact{}, false, nil
	}
	if err != nil {
		return Contact{}, false, err
	}
	return contact, true, nil
}

// MergeIdentifiers keeps the order of primary and appends what only extra has.
func MergeIdentifiers(primary, extra []session.Identifier) []session.Identifier {
	merged := slices.Clone(primary)
	for _, id := range extra {
		if !slices.Contains(merged, id) {
			merged = append(merged, id)
		}
	}
	return merged
}
