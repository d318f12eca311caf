package profile

import (
	"context"
	"fmt"

	"profile-sync/core/facet"
	"profile-sync/core/logger"
	"profile-sync/core/session"
	"profile-sync/feature/profile/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service exposes the profile of the contact behind a session and writes
// changes back through the facet store.
type Service struct {
	repo     *facet.Repository
	tracker  session.Tracker
	opener   facet.Opener
	settings ConfigProvider
	logger   *zap.Logger
	probes   singleflight.Group
}

// NewService creates a new profile service.
func NewService(repo *facet.Repository, tracker session.Tracker, opener facet.Opener, settings ConfigProvider, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		tracker:  tracker,
		opener:   opener,
		settings: settings,
		logger:   logger,
	}
}

// GetContactProfile assembles the profile of the session contact. Personal
// info comes from the session cache, emails from one store read.
func (s *Service) GetContactProfile(ctx context.Context, sess *session.Session) (*models.ContactProfile, error) {
	if !s.IsSessionActive(sess) {
		return nil, ErrNoActiveSession
	}

	profile := &models.ContactProfile{
		ContactID:   sess.ContactID,
		Identifiers: make([]string, 0, len(sess.Identifiers)),
	}
	for _, id := range sess.Identifiers {
		profile.Identifiers = append(profile.Identifiers, id.String())
	}

	personal, ok, err := facet.Cached[facet.PersonalInfo](sess)
	if err != nil {
		return nil, storeError("read personal info", err)
	}
	if ok {
		profile.FirstName = personal.FirstName
		profile.LastName = personal.LastName
	}

	emails, ok, err := facet.Load[facet.EmailList](ctx, s.repo.Store(), sess.ContactID)
	if err != nil {
		return nil, storeError("read emails", err)
	}
	if ok {
		for _, label := range emails.Labels() {
			profile.Emails = append(profile.Emails, fmt.Sprintf("%s (%s)", emails.Entries[label].SmtpAddress, label))
		}
		if preferred, found := emails.Preferred(); found {
			address := preferred.SmtpAddress
			profile.PreferredEmail = &address
		}
	}

	return profile, nil
}

// IsSessionActive reports whether the session has an identified contact.
func (s *Service) IsSessionActive(sess *session.Session) bool {
	return sess.Active()
}

// FlushSession abandons the session. Flushing a missing or already abandoned
// session does nothing.
func (s *Service) FlushSession(ctx context.Context, sess *session.Session) error {
	if sess == nil || sess.ID == "" {
		return nil
	}
	if err := s.tracker.Abandon(ctx, sess.ID); err != nil {
		return fmt.Errorf("flush session: %w", err)
	}
	logger.WithSession(s.logger, sess.ID, sess.ContactID).Info("Session flushed")
	return nil
}

// SetContactData updates the name and the preferred email of the session
// contact. The personal info is saved and reloaded before the email list is
// read. The two saves are not atomic: when the second fails the name change
// stays applied.
func (s *Service) SetContactData(ctx context.Context, sess *session.Session, firstName, lastName, email string) error {
	if !s.IsSessionActive(sess) {
		return ErrNoActiveSession
	}
	l := logger.WithSession(s.logger, sess.ID, sess.ContactID)

	contact, err := s.repo.CurrentContact(ctx, sess)
	if err != nil {
		return storeError("get contact", err)
	}
	personal, _, err := facet.Load[facet.PersonalInfo](ctx, s.repo.Store(), contact.ID)
	if err != nil {
		return storeError("read personal info", err)
	}
	personal.SetName(firstName, lastName)

	if err := s.repo.SaveFacet(ctx, contact, personal); err != nil {
		return storeError("save personal info", err)
	}
	if err := s.repo.ReloadCurrentContact(ctx, sess); err != nil {
		return storeError("reload contact", err)
	}

	contact, err = s.repo.CurrentContact(ctx, sess)
	if err != nil {
		return storeError("get contact", err)
	}
	address := facet.EmailAddress{SmtpAddress: email, Validated: true}
	emails, found, err := facet.Load[facet.EmailList](ctx, s.repo.Store(), contact.ID)
	if err != nil {
		return storeError("read emails", err)
	}
	if found {
		emails.SetPreferred(address)
	} else {
		emails = facet.NewEmailList(address, facet.DefaultEmailLabel)
	}

	if err := s.repo.SaveFacet(ctx, contact, emails); err != nil {
		return storeError("save emails", err)
	}
	if err := s.repo.ReloadCurrentContact(ctx, sess); err != nil {
		return storeError("reload contact", err)
	}

	l.Info("Contact data updated", zap.String("preferred_email_label", emails.PreferredKey))
	return nil
}

// SetIdentifier binds the session to an external identifier. When the store
// already knows a contact with that identifier the session switches to it.
// Stored profiles are never merged.
func (s *Service) SetIdentifier(ctx context.Context, sess *session.Session, id, source string) error {
	if sess == nil {
		return ErrNoActiveSession
	}
	contact, known, err := s.repo.ContactByIdentifier(ctx, source, id)
	if err != nil {
		return storeError("resolve identifier", err)
	}

	if known && contact.ID != sess.ContactID {
		sess.ContactID = contact.ID
		sess.Identifiers = contact.Identifiers
		sess.IdentifyAs(source, id)
		sess.Identifiers = facet.MergeIdentifiers(sess.Identifiers, contact.Identifiers)

		logger.WithSession(s.logger, sess.ID, sess.ContactID).Info("Session switched to known contact",
			zap.String("source", source))
		if err := s.repo.ReloadCurrentContact(ctx, sess); err != nil {
			return storeError("reload contact", err)
		}
		return nil
	}

	sess.IdentifyAs(source, id)
	if err := s.tracker.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
