package mocks

import (
	"context"

	"profile-sync/core/facet"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of facet.Store
type Store struct {
	mock.Mock
}

func (m *Store) GetContact(ctx context.Context, id string) (facet.Contact, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(facet.Contact), args.Error(1)
}

func (m *Store) GetContactByIdentifier(ctx context.Context, source, identifier string) (facet.Contact, error) {
	args := m.Called(ctx, source, identifier)
	return args.Get(0).(facet.Contact), args.Error(1)
}

func (m *Store) SaveContact(ctx context.Context, c facet.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *Store) LoadFacet(ctx context.Context, contactID, key string) ([]byte, error) {
	args := m.Called(ctx, contactID, key)
	if fn, ok := args.Get(0).(func(context.Context, string, string) []byte); ok {
		return fn(ctx, contactID, key), args.Error(1)
	}
	if raw, ok := args.Get(0).([]byte); ok {
		return raw, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) SaveFacet(ctx context.Context, contactID, key string, payload []byte) error {
	args := m.Called(ctx, contactID, key, payload)
	return args.Error(0)
}

func (m *Store) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Opener is a mock implementation of facet.Opener
type Opener struct {
	mock.Mock
}

func (m *Opener) Open(ctx context.Context) (facet.Store, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(facet.Store); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
