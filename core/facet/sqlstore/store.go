package sqlstore

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"profile-sync/core/database"
	"profile-sync/core/facet"
	"profile-sync/core/session"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements facet.Store on a SQL database through GORM.
type Store struct {
	db *gorm.DB
}

// New wraps an open connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to the database. Connection failures match facet.ErrUnavailable.
func Open(cfg database.Config) (*Store, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, facet.Unavailable(err)
	}
	return New(db), nil
}

// GetContact implements facet.Store.
func (s *Store) GetContact(ctx context.Context, id string) (facet.Contact, error) {
	var rec contactRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		return facet.Contact{}, classify(err)
	}

	var ids []identifierRecord
	if err := s.db.WithContext(ctx).Where("contact_id = ?", id).Order("position").Find(&ids).Error; err != nil {
		return facet.Contact{}, classify(err)
	}

	contact := facet.Contact{ID: rec.ID, Identifiers: make([]session.Identifier, 0, len(ids))}
	for _, r := range ids {
		contact.Identifiers = append(contact.Identifiers, session.Identifier{Source: r.Source, Identifier: r.Identifier})
	}
	return contact, nil
}

// GetContactByIdentifier implements facet.Store.
func (s *Store) GetContactByIdentifier(ctx context.Context, source, identifier string) (facet.Contact, error) {
	var rec identifierRecord
	err := s.db.WithContext(ctx).Where("source = ? AND identifier = ?", source, identifier).Take(&rec).Error
	if err != nil {
		return facet.Contact{}, classify(err)
	}
	return s.GetContact(ctx, rec.ContactID)
}

// SaveContact implements facet.Store. Identifiers are bound in order; an
// identifier owned by another contact fails with facet.ErrIdentifierConflict.
func (s *Store) SaveContact(ctx context.Context, c facet.Contact) error {
	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := contactRecord{ID: c.ID, CreatedAt: now, UpdatedAt: now}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}).Create(&rec).Error; err != nil {
			return err
		}

		for pos, id := range c.Identifiers {
			var existing identifierRecord
			err := tx.Where("source = ? AND identifier = ?", id.Source, id.Identifier).Take(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&identifierRecord{
					Source:     id.Source,
					Identifier: id.Identifier,
					ContactID:  c.ID,
					Position:   pos,
					CreatedAt:  now,
				}).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			case existing.ContactID != c.ID:
				return fmt.Errorf("%w: %s", facet.ErrIdentifierConflict, id)
			case existing.Position != pos:
				if err := tx.Model(&existing).Update("position", pos).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	return classify(err)
}

// LoadFacet implements facet.Store.
func (s *Store) LoadFacet(ctx context.Context, contactID, key string) ([]byte, error) {
	var rec facetRecord
	err := s.db.WithContext(ctx).Where("contact_id = ? AND facet_key = ?", contactID, key).Take(&rec).Error
	if err != nil {
		return nil, classify(err)
	}
	return []byte(rec.Payload), nil
}

// SaveFacet implements facet.Store.
func (s *Store) SaveFacet(ctx context.Context, contactID, key string, payload []byte) error {
	rec := facetRecord{
		ContactID: contactID,
		FacetKey:  key,
		Payload:   string(payload),
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contact_id"}, {Name: "facet_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
	return classify(err)
}

// Close implements facet.Store.
func (s *Store) Close() error {
	return database.Close(s.db)
}

// classify maps GORM and driver errors onto the facet sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return facet.ErrNotFound
	}
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &netErr) {
		return facet.Unavailable(err)
	}
	return err
}
