package profile

import (
	"context"
	"encoding/json"
	"testing"

	"profile-sync/core/database"
	"profile-sync/core/facet"
	"profile-sync/core/facet/mocks"
	"profile-sync/core/facet/sqlstore"
	"profile-sync/core/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticSettings struct {
	flags map[string]bool
	conns map[string]string
}

func (s staticSettings) GetBoolSetting(name string, fallback bool) bool {
	if v, ok := s.flags[name]; ok {
		return v
	}
	return fallback
}

func (s staticSettings) GetConnectionString(name string) string {
	return s.conns[name]
}

func enabledSettings() staticSettings {
	return staticSettings{
		flags: map[string]bool{"Xdb.Enabled": true, "Xdb.Tracking.Enabled": true},
		conns: map[string]string{"xconnect.collection": "sqlite://:memory:"},
	}
}

func setupTracker(t *testing.T) *session.RedisTracker {
	s := miniredis.RunT(t)
	tracker, err := session.NewRedisTracker(session.Config{RedisURL: "redis://" + s.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tracker.Close() })
	return tracker
}

func setupSQLStore(t *testing.T) *sqlstore.Store {
	store, err := sqlstore.Open(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// setupService wires the service on miniredis and an in-memory SQLite store.
func setupService(t *testing.T) (*Service, *sqlstore.Store, *session.RedisTracker, *mocks.Opener) {
	tracker := setupTracker(t)
	store := setupSQLStore(t)
	opener := new(mocks.Opener)
	repo := facet.NewRepository(store, tracker, []string{facet.PersonalInfoKey}, zap.NewNop())
	return NewService(repo, tracker, opener, enabledSettings(), zap.NewNop()), store, tracker, opener
}

func startSession(t *testing.T, tracker session.Tracker) *session.Session {
	sess, err := tracker.Start(context.Background())
	require.NoError(t, err)
	return sess
}

func TestGetContactProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("NoSession", func(t *testing.T) {
		svc, _, _, _ := setupService(t)
		_, err := svc.GetContactProfile(ctx, nil)
		assert.ErrorIs(t, err, ErrNoActiveSession)

		_, err = svc.GetContactProfile(ctx, &session.Session{ID: "s-1"})
		assert.ErrorIs(t, err, ErrNoActiveSession)
	})

	t.Run("MissingFacets", func(t *testing.T) {
		svc, _, tracker, _ := setupService(t)
		sess := startSession(t, tracker)

		profile, err := svc.GetContactProfile(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, sess.ContactID, profile.ContactID)
		assert.Equal(t, []string{sess.Identifiers[0].Identifier + " (xDB.Tracker)"}, profile.Identifiers)
		assert.Nil(t, profile.FirstName)
		assert.Nil(t, profile.LastName)
		assert.Empty(t, profile.Emails)
		assert.Nil(t, profile.PreferredEmail)
	})

	t.Run("PersonalInfoFromSession", func(t *testing.T) {
		svc, _, tracker, _ := setupService(t)
		sess := startSession(t, tracker)

		var personal facet.PersonalInfo
		personal.SetName("Ada", "Lovelace")
		raw, err := json.Marshal(personal)
		require.NoError(t, err)
		sess.Facets[facet.PersonalInfoKey] = raw

		profile, err := svc.GetContactProfile(ctx, sess)
		require.NoError(t, err)
		require.NotNil(t, profile.FirstName)
		require.NotNil(t, profile.LastName)
		assert.Equal(t, "Ada", *profile.FirstName)
		assert.Equal(t, "Lovelace", *profile.LastName)
	})

	t.Run("EmailsFromStore", func(t *testing.T) {
		svc, store, tracker, _ := setupService(t)
		sess := startSession(t, tracker)

		emails := facet.EmailList{
			Entries: map[string]facet.EmailAddress{
				"work":    {SmtpAddress: "ada@work.example"},
				"default": {SmtpAddress: "ada@example.com", Validated: true},
			},
			PreferredKey: "default",
		}
		require.NoError(t, facet.Save(ctx, store, sess.ContactID, emails))

		profile, err := svc.GetContactProfile(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, []string{"ada@example.com (default)", "ada@work.example (work)"}, profile.Emails)
		require.NotNil(t, profile.PreferredEmail)
		assert.Equal(t, "ada@example.com", *profile.PreferredEmail)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		tracker := setupTracker(t)
		store := new(mocks.Store)
		repo := facet.NewRepository(store, tracker, nil, zap.NewNop())
		svc := NewService(repo, tracker, nil, enabledSettings(), zap.NewNop())
		sess := startSession(t, tracker)

		store.On("LoadFacet", mock.Anything, sess.ContactID, facet.EmailsKey).Return(nil, assert.AnError)

		_, err := svc.GetContactProfile(ctx, sess)
		assert.ErrorIs(t, err, ErrFacetStore)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestSetContactData(t *testing.T) {
	ctx := context.Background()

	t.Run("ReadAfterWrite", func(t *testing.T) {
		svc, _, tracker, _ := setupService(t)
		sess := startSession(t, tracker)

		require.NoError(t, svc.SetContactData(ctx, sess, "Ada", "Lovelace", "ada@example.com"))

		profile, err := svc.GetContactProfile(ctx, sess)
		require.NoError(t, err)
		require.NotNil(t, profile.FirstName)
		assert.Equal(t, "Ada", *profile.FirstName)
		assert.Equal(t, "Lovelace", *profile.LastName)
		assert.Equal(t, []string{"ada@example.com (default)"}, profile.Emails)
		assert.Equal(t, "ada@example.com", *profile.PreferredEmail)

		// The reload persisted the session cache.
		stored, err := tracker.Get(ctx, sess.ID)
		require.NoError(t, err)
		profile, err = svc.GetContactProfile(ctx, stored)
		require.NoError(t, err)
		assert.Equal(t, "Ada", *profile.FirstName)
	})

	t.Run("MissingPersonalInfoCreatesNameOnly", func(t *testing.T) {
		svc, store, tracker, _ := setupService(t)
		sess := startSession(t, tracker)

		require.NoError(t, svc.SetContactData(ctx, sess, "Ada", "Lovelace", "ada@example.com"))

		personal, found, err := facet.Load[facet.PersonalInfo](ctx, store, sess.ContactID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "Ada", *personal.FirstName)
		assert.Equal(t, "Lovelace", *personal.LastName)
		assert.Nil(t, personal.Title)
		assert.Nil(t, personal.JobTitle)
		assert.Nil(t, personal.Nickname)
	})

	t.Run("OtherPersonalFieldsUntouched", func(t *testing.T) {
		svc, store, tracker, _ := setupService(t)
		sess := startSession(t, tracker)

		title := "Countess"
		require.NoError(t, facet.Save(ctx, store, sess.ContactID, facet.PersonalInfo{Title: &title}))
		require.NoError(t, svc.SetContactData(ctx, sess, "Ada", "Lovelace", "ada@example.com"))

		personal, _, err := facet.Load[facet.PersonalInfo](ctx, store, sess.ContactID)
		require.NoError(t, err)
		require.NotNil(t, personal.Title)
		assert.Equal(t, "Countess", *personal.Title)
		assert.Equal(t, "Ada", *personal.FirstName)
	})

	t.Run("PreferredMovesWithoutDeletingEntries", func(t *testing.T) {
		svc, store, tracker, _ := setupService(t)
		sess := startSession(t, tracker)

		require.NoError(t, facet.Save(ctx, store, sess.ContactID, facet.EmailList{
			Entries: map[string]facet.EmailAddress{
				"home": {SmtpAddress: "a@example.com"},
				"work": {SmtpAddress: "b@example.com"},
			},
			PreferredKey: "work",
		}))

		require.NoError(t, svc.SetContactData(ctx, sess, "Ada", "Lovelace", "c@example.com"))

		emails, found, err := facet.Load[facet.EmailList](ctx, store, sess.ContactID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Len(t, emails.Entries, 3)
		assert.Equal(t, "a@example.com", emails.Entries["home"].SmtpAddress)
		assert.Equal(t, "b@example.com", emails.Entries["work"].SmtpAddress)
		preferred, ok := emails.Preferred()
		require.True(t, ok)
		assert.Equal(t, "c@example.com", preferred.SmtpAddress)
		assert.True(t, preferred.Validated)
	})

	t.Run("ExistingAddressBecomesPreferred", func(t *testing.T) {
		svc, store, tracker, _ := setupService(t)
		sess := startSession(t, tracker)

		require.NoError(t, facet.Save(ctx, store, sess.ContactID, facet.EmailList{
			Entries: map[string]facet.EmailAddress{
				"home": {SmtpAddress: "a@example.com"},
				"work": {SmtpAddress: "b@example.com"},
			},
			PreferredKey: "work",
		}))

		require.NoError(t, svc.SetContactData(ctx, sess, "Ada", "Lovelace", "a@example.com"))

		emails, _, err := facet.Load[facet.EmailList](ctx, store, sess.ContactID)
		require.NoError(t, err)
		assert.Len(t, emails.Entries, 2)
		assert.Equal(t, "home", emails.PreferredKey)
	})

	t.Run("NoSession", func(t *testing.T) {
		svc, _, _, _ := setupService(t)
		assert.ErrorIs(t, svc.SetContactData(ctx, nil, "Ada", "Lovelace", "ada@example.com"), ErrNoActiveSession)
	})

	t.Run("EmailSaveFailureKeepsName", func(t *testing.T) {
		tracker := setupTracker(t)
		store := new(mocks.Store)
		repo := facet.NewRepository(store, tracker, []string{facet.PersonalInfoKey}, zap.NewNop())
		svc := NewService(repo, tracker, nil, enabledSettings(), zap.NewNop())
		sess := startSession(t, tracker)

		var saved []byte
		store.On("GetContact", mock.Anything, sess.ContactID).Return(facet.Contact{}, facet.ErrNotFound)
		store.On("SaveContact", mock.Anything, mock.Anything).Return(nil)
		store.On("LoadFacet", mock.Anything, sess.ContactID, facet.PersonalInfoKey).Return(nil, facet.ErrNotFound).Once()
		store.On("SaveFacet", mock.Anything, sess.ContactID, facet.PersonalInfoKey, mock.Anything).
			Run(func(args mock.Arguments) { saved = args.Get(3).([]byte) }).
			Return(nil)
		store.On("LoadFacet", mock.Anything, sess.ContactID, facet.PersonalInfoKey).
			Return(func(context.Context, string, string) []byte { return saved }, nil)
		store.On("LoadFacet", mock.Anything, sess.ContactID, facet.EmailsKey).Return(nil, facet.ErrNotFound)
		store.On("SaveFacet", mock.Anything, sess.ContactID, facet.EmailsKey, mock.Anything).Return(assert.AnError)

		err := svc.SetContactData(ctx, sess, "Ada", "Lovelace", "ada@example.com")
		assert.ErrorIs(t, err, ErrFacetStore)

		var storeErr *FacetStoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "save emails", storeErr.Op)

		// The personal info reload already reached the session.
		personal, found, err := facet.Cached[facet.PersonalInfo](sess)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "Ada", *personal.FirstName)
	})
}

func TestSetIdentifier(t *testing.T) {
	ctx := context.Background()

	t.Run("BindsUnknownIdentifier", func(t *testing.T) {
		svc, _, tracker, _ := setupService(t)
		sess := startSession(t, tracker)
		anonymous := sess.Identifiers[0]

		require.NoError(t, svc.SetIdentifier(ctx, sess, "ada@example.com", "website"))
		assert.Equal(t, []session.Identifier{{Source: "website", Identifier: "ada@example.com"}, anonymous}, sess.Identifiers)

		stored, err := tracker.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess.Identifiers, stored.Identifiers)

		require.NoError(t, svc.SetIdentifier(ctx, sess, "42", "crm"))
		assert.Equal(t, []session.Identifier{{Source: "crm", Identifier: "42"}, anonymous}, sess.Identifiers)
	})

	t.Run("SwitchesToKnownContact", func(t *testing.T) {
		svc, store, tracker, _ := setupService(t)

		first := startSession(t, tracker)
		require.NoError(t, svc.SetIdentifier(ctx, first, "ada@example.com", "website"))
		require.NoError(t, svc.SetContactData(ctx, first, "Ada", "Lovelace", "ada@example.com"))

		second := startSession(t, tracker)
		require.NotEqual(t, first.ContactID, second.ContactID)
		require.NoError(t, svc.SetIdentifier(ctx, second, "ada@example.com", "website"))

		assert.Equal(t, first.ContactID, second.ContactID)
		assert.Equal(t, session.Identifier{Source: "website", Identifier: "ada@example.com"}, second.Identifiers[0])

		profile, err := svc.GetContactProfile(ctx, second)
		require.NoError(t, err)
		require.NotNil(t, profile.FirstName)
		assert.Equal(t, "Ada", *profile.FirstName)

		contact, err := store.GetContactByIdentifier(ctx, "website", "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, first.ContactID, contact.ID)
	})

	t.Run("NoSession", func(t *testing.T) {
		svc, _, _, _ := setupService(t)
		assert.ErrorIs(t, svc.SetIdentifier(ctx, nil, "42", "crm"), ErrNoActiveSession)
	})
}

func TestSessionOperations(t *testing.T) {
	ctx := context.Background()
	svc, _, tracker, _ := setupService(t)

	assert.False(t, svc.IsSessionActive(nil))
	assert.False(t, svc.IsSessionActive(&session.Session{ID: "s-1"}))

	sess := startSession(t, tracker)
	assert.True(t, svc.IsSessionActive(sess))

	require.NoError(t, svc.FlushSession(ctx, sess))
	_, err := tracker.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	// Flushing again is a no-op.
	assert.NoError(t, svc.FlushSession(ctx, sess))
	assert.NoError(t, svc.FlushSession(ctx, nil))
}
