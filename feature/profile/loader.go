package profile

import (
	"profile-sync/core/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the profile feature. Requests resolve their session
// through tracker using the configured cookie.
func NewFeature(svc *Service, tracker session.Tracker, cookieName string, logger *zap.Logger) *Feature {
	mw := SessionMiddleware(tracker, cookieName, svc.TrackingEnabled, logger)
	return &Feature{service: svc, handler: NewHandler(svc, mw, cookieName)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "profile"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
