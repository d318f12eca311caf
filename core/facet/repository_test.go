package facet_test

import (
	"context"
	"encoding/json"
	"testing"

	"profile-sync/core/facet"
	"profile-sync/core/facet/mocks"
	"profile-sync/core/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRepository(t *testing.T) (*facet.Repository, *mocks.Store, *session.RedisTracker) {
	s := miniredis.RunT(t)
	tracker, err := session.NewRedisTracker(session.Config{RedisURL: "redis://" + s.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tracker.Close() })

	store := new(mocks.Store)
	repo := facet.NewRepository(store, tracker, []string{facet.PersonalInfoKey}, zap.NewNop())
	return repo, store, tracker
}

func TestRepository_CurrentContact(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownContactIsUnsaved", func(t *testing.T) {
		repo, store, _ := setupRepository(t)
		sess := session.New()
		store.On("GetContact", mock.Anything, sess.ContactID).Return(facet.Contact{}, facet.ErrNotFound)

		contact, err := repo.CurrentContact(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, sess.ContactID, contact.ID)
		assert.Equal(t, sess.Identifiers, contact.Identifiers)
	})

	t.Run("StoredIdentifiersAreMerged", func(t *testing.T) {
		repo, store, _ := setupRepository(t)
		sess := session.New()
		sess.IdentifyAs("crm", "42")
		stored := session.Identifier{Source: "legacy", Identifier: "7"}
		store.On("GetContact", mock.Anything, sess.ContactID).
			Return(facet.Contact{ID: sess.ContactID, Identifiers: []session.Identifier{stored, sess.Identifiers[1]}}, nil)

		contact, err := repo.CurrentContact(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, append(append([]session.Identifier(nil), sess.Identifiers...), stored), contact.Identifiers)
	})

	t.Run("StoreError", func(t *testing.T) {
		repo, store, _ := setupRepository(t)
		sess := session.New()
		store.On("GetContact", mock.Anything, sess.ContactID).Return(facet.Contact{}, assert.AnError)

		_, err := repo.CurrentContact(ctx, sess)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestRepository_SaveFacet(t *testing.T) {
	ctx := context.Background()
	repo, store, _ := setupRepository(t)
	contact := facet.Contact{ID: "c-1"}
	info := facet.PersonalInfo{}
	info.SetName("Ada", "Lovelace")

	store.On("SaveContact", mock.Anything, contact).Return(nil).Once()
	store.On("SaveFacet", mock.Anything, "c-1", facet.PersonalInfoKey, mock.MatchedBy(func(p []byte) bool {
		return string(p) == `{"first_name":"Ada","last_name":"Lovelace"}`
	})).Return(nil).Once()

	require.NoError(t, repo.SaveFacet(ctx, contact, info))
	store.AssertExpectations(t)

	t.Run("ContactSaveFails", func(t *testing.T) {
		repo, store, _ := setupRepository(t)
		store.On("SaveContact", mock.Anything, contact).Return(facet.ErrIdentifierConflict)

		err := repo.SaveFacet(ctx, contact, info)
		assert.ErrorIs(t, err, facet.ErrIdentifierConflict)
		store.AssertNotCalled(t, "SaveFacet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRepository_ReloadCurrentContact(t *testing.T) {
	ctx := context.Background()
	repo, store, tracker := setupRepository(t)

	sess, err := tracker.Start(ctx)
	require.NoError(t, err)
	sess.ReplaceFacets(map[string]json.RawMessage{"Stale": json.RawMessage(`{}`)})

	store.On("LoadFacet", mock.Anything, sess.ContactID, facet.PersonalInfoKey).
		Return([]byte(`{"first_name":"Ada"}`), nil)

	require.NoError(t, repo.ReloadCurrentContact(ctx, sess))

	loaded, err := tracker.Get(ctx, sess.ID)
	require.NoError(t, err)
	_, stale := loaded.CachedFacet("Stale")
	assert.False(t, stale)

	info, ok, err := facet.Cached[facet.PersonalInfo](loaded)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ada", *info.FirstName)

	t.Run("MissingFacetIsSkipped", func(t *testing.T) {
		repo, store, tracker := setupRepository(t)
		sess, err := tracker.Start(ctx)
		require.NoError(t, err)
		store.On("LoadFacet", mock.Anything, sess.ContactID, facet.PersonalInfoKey).Return(nil, facet.ErrNotFound)

		require.NoError(t, repo.ReloadCurrentContact(ctx, sess))
		assert.Empty(t, sess.Facets)
	})

	t.Run("StoreError", func(t *testing.T) {
		repo, store, _ := setupRepository(t)
		sess := session.New()
		store.On("LoadFacet", mock.Anything, sess.ContactID, facet.PersonalInfoKey).Return(nil, assert.AnError)

		assert.ErrorIs(t, repo.ReloadCurrentContact(ctx, sess), assert.AnError)
	})
}

func TestRepository_ContactByIdentifier(t *testing.T) {
	ctx := context.Background()
	repo, store, _ := setupRepository(t)
	known := facet.Contact{ID: "c-9"}

	store.On("GetContactByIdentifier", mock.Anything, "crm", "9").Return(known, nil)
	store.On("GetContactByIdentifier", mock.Anything, "crm", "10").Return(facet.Contact{}, facet.ErrNotFound)
	store.On("GetContactByIdentifier", mock.Anything, "crm", "11").Return(facet.Contact{}, assert.AnError)

	contact, ok, err := repo.ContactByIdentifier(ctx, "crm", "9")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, known, contact)

	_, ok, err = repo.ContactByIdentifier(ctx, "crm", "10")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = repo.ContactByIdentifier(ctx, "crm", "11")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestMergeIdentifiers(t *testing.T) {
	web := session.Identifier{Source: "website", Identifier: "a"}
	crm := session.Identifier{Source: "crm", Identifier: "42"}
	mail := session.Identifier{Source: "email", Identifier: "a@example.com"}

	primary := []session.Identifier{web, crm}
	merged := facet.MergeIdentifiers(primary, []session.Identifier{crm, mail, mail})

	assert.Equal(t, []session.Identifier{web, crm, mail}, merged)
	assert.Len(t, primary, 2)
	assert.Empty(t, facet.MergeIdentifiers(nil, nil))
}
