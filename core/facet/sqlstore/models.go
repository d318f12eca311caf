package sqlstore

import "time"

type contactRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (contactRecord) TableName() string {
	return "contacts"
}

type identifierRecord struct {
	Source     string    `gorm:"primaryKey;column:source;type:varchar(100)"`
	Identifier string    `gorm:"primaryKey;column:identifier;type:varchar(255)"`
	ContactID  string    `gorm:"column:contact_id;type:varchar(36);index"`
	Position   int       `gorm:"column:position"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (identifierRecord) TableName() string {
	return "contact_identifiers"
}

type facetRecord struct {
	ContactID string    `gorm:"primaryKey;column:contact_id;type:varchar(36)"`
	FacetKey  string    `gorm:"primaryKey;column:facet_key;type:varchar(64)"`
	Payload   string    `gorm:"column:payload;type:text"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (facetRecord) TableName() string {
	return "contact_facets"
}

// models lists every table the store owns, in migration order.
var models = []any{contactRecord{}, identifierRecord{}, facetRecord{}}
