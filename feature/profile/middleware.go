package profile

import (
	"errors"
	"time"

	"profile-sync/core/logger"
	"profile-sync/core/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	// SessionHeader carries the session id for clients without cookies.
	SessionHeader    = "X-Session-ID"
	sessionLocalsKey = "session"
)

// SessionMiddleware resolves the request session from the cookie or the
// X-Session-ID header. Unknown or expired sessions are replaced by a new
// anonymous one only while tracking is enabled.
func SessionMiddleware(tracker session.Tracker, cookieName string, trackingEnabled func() bool, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := logger.WithRayID(log, c)
		ctx := c.UserContext()

		var sess *session.Session
		id := c.Cookies(cookieName)
		if id == "" {
			id = c.Get(SessionHeader)
		}
		if id != "" {
			found, err := tracker.Get(ctx, id)
			switch {
			case err == nil:
				sess = found
			case errors.Is(err, session.ErrNotFound):
				l.Debug("Session expired", zap.String("session_id", id))
			default:
				l.Error("Failed to load session", zap.Error(err))
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "session store unavailable"})
			}
		}

		if sess == nil && trackingEnabled() {
			started, err := tracker.Start(ctx)
			if err != nil {
				l.Error("Failed to start session", zap.Error(err))
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "session store unavailable"})
			}
			sess = started
			l.Info("Session started", zap.String("session_id", sess.ID), zap.String("contact_id", sess.ContactID))
		}

		if sess != nil {
			c.Cookie(&fiber.Cookie{
				Name:     cookieName,
				Value:    sess.ID,
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
			c.Set(SessionHeader, sess.ID)
			c.Locals(sessionLocalsKey, sess)
		}
		return c.Next()
	}
}

// SessionFrom returns the session resolved by SessionMiddleware, or nil.
func SessionFrom(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(sessionLocalsKey).(*session.Session)
	return sess
}

func clearSessionCookie(c *fiber.Ctx, cookieName string) {
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})
}
