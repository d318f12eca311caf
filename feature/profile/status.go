package profile

import (
	"context"
	"errors"
	"fmt"

	"profile-sync/core/facet"
	"profile-sync/core/session"
	"profile-sync/feature/profile/models"

	"go.uber.org/zap"
)

// ProbeState is the outcome of a collection round trip.
type ProbeState int

const (
	ProbeOK ProbeState = iota
	ProbeUnavailable
	ProbeFailed
)

// ProbeResult is the outcome of a collection probe with its reason.
type ProbeResult struct {
	State  ProbeState
	Reason string
}

// Status renders the result as a service status.
func (r ProbeResult) Status() models.ServiceStatus {
	switch r.State {
	case ProbeOK:
		return models.ServiceStatus{CollectionAvailable: true, Collection: "OK"}
	case ProbeUnavailable:
		return models.ServiceStatus{Collection: "NOT AVAILABLE " + r.Reason}
	default:
		return models.ServiceStatus{Collection: "FAILED " + r.Reason}
	}
}

// GetStatus probes the collection with the first identifier of the session.
// It never fails: every error is reported in the returned status.
func (s *Service) GetStatus(ctx context.Context, sess *session.Session) models.ServiceStatus {
	id, ok := sess.FirstIdentifier()
	if !ok {
		return ProbeResult{State: ProbeFailed, Reason: "no identifier in session"}.Status()
	}

	// Shared by every waiting caller, so it outlives the first one.
	probeCtx := context.WithoutCancel(ctx)
	v, _, _ := s.probes.Do(id.Source+"\x00"+id.Identifier, func() (any, error) {
		return s.Probe(probeCtx, id), nil
	})
	result := v.(ProbeResult)

	if result.State != ProbeOK {
		s.logger.Warn("Collection probe failed",
			zap.String("identifier", id.String()),
			zap.String("reason", result.Reason))
	}
	return result.Status()
}

// Probe opens a scoped store client, resolves the identifier and closes the
// client again. A panicking client is reported as failed.
func (s *Service) Probe(ctx context.Context, id session.Identifier) (result ProbeResult) {
	defer func() {
		if r := recover(); r != nil {
			result = ProbeResult{State: ProbeFailed, Reason: fmt.Sprint(r)}
		}
	}()

	client, err := s.opener.Open(ctx)
	if err != nil {
		return classifyProbe(err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			s.logger.Debug("Failed to close probe client", zap.Error(err))
		}
	}()

	_, err = client.GetContactByIdentifier(ctx, id.Source, id.Identifier)
	if err != nil && !errors.Is(err, facet.ErrNotFound) {
		return classifyProbe(err)
	}
	return ProbeResult{State: ProbeOK}
}

func classifyProbe(err error) ProbeResult {
	if errors.Is(err, facet.ErrUnavailable) {
		return ProbeResult{State: ProbeUnavailable, Reason: err.Error()}
	}
	return ProbeResult{State: ProbeFailed, Reason: err.Error()}
}
