package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnonymousSource is the identifier source of the tracker-assigned identifier
// every session starts with.
const AnonymousSource = "xDB.Tracker"

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Tracker stores live sessions.
type Tracker interface {
	// Start creates a new session bound to a fresh anonymous contact.
	Start(ctx context.Context) (*Session, error)
	// Get loads a session and extends its lifetime.
	Get(ctx context.Context, id string) (*Session, error)
	// Save persists the session.
	Save(ctx context.Context, s *Session) error
	// Abandon removes the session. Abandoning an unknown session is not an error.
	Abandon(ctx context.Context, id string) error
}

// Identifier is an external reference to a contact within a source namespace.
type Identifier struct {
	Source     string `json:"source"`
	Identifier string `json:"identifier"`
}

// String renders the identifier as "identifier (source)".
func (i Identifier) String() string {
	return fmt.Sprintf("%s (%s)", i.Identifier, i.Source)
}

// Anonymous reports whether the identifier was assigned by the tracker.
func (i Identifier) Anonymous() bool {
	return i.Source == AnonymousSource
}

// Session is the live, per-visit state of a contact.
type Session struct {
	ID          string                     `json:"id"`
	ContactID   string                     `json:"contact_id"`
	Identifiers []Identifier               `json:"identifiers"`
	Facets      map[string]json.RawMessage `json:"facets,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

// New returns a session for a fresh anonymous contact.
func New() *Session {
	contactID := uuid.New()
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		ContactID: contactID.String(),
		Identifiers: []Identifier{{
			Source:     AnonymousSource,
			Identifier: strings.ReplaceAll(contactID.String(), "-", ""),
		}},
		Facets:    make(map[string]json.RawMessage),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Active reports whether the session has an identified contact.
func (s *Session) Active() bool {
	return s != nil && s.ContactID != ""
}

// FirstIdentifier returns the identifier the contact is primarily known by.
func (s *Session) FirstIdentifier() (Identifier, bool) {
	if s == nil || len(s.Identifiers) == 0 {
		return Identifier{}, false
	}
	return s.Identifiers[0], true
}

// IdentifyAs binds the session to a known identifier. It replaces any known
// identifier bound before and keeps the anonymous one.
func (s *Session) IdentifyAs(source, identifier string) {
	ids := []Identifier{{Source: source, Identifier: identifier}}
	for _, id := range s.Identifiers {
		if id.Anonymous() {
			ids = append(ids, id)
		}
	}
	s.Identifiers = ids
}

// CachedFacet returns the raw facet payload cached in the session.
func (s *Session) CachedFacet(key string) (json.RawMessage, bool) {
	if s == nil || s.Facets == nil {
		return nil, false
	}
	raw, ok := s.Facets[key]
	return raw, ok && len(raw) > 0
}

// ReplaceFacets swaps the cached facet bundle.
func (s *Session) ReplaceFacets(facets map[string]json.RawMessage) {
	if facets == nil {
		facets = make(map[string]json.RawMessage)
	}
	s.Facets = facets
}
