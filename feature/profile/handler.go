package profile

import (
	"errors"
	"strings"

	"profile-sync/core/logger"
	"profile-sync/feature/profile/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the contact profile.
type Handler struct {
	service    *Service
	session    fiber.Handler
	cookieName string
}

// NewHandler creates a new HTTP handler. session resolves the request session.
func NewHandler(service *Service, session fiber.Handler, cookieName string) *Handler {
	return &Handler{service: service, session: session, cookieName: cookieName}
}

// RegisterRoutes registers the profile routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/contact", h.session, h.HandleGetContact)
	app.Put("/contact", h.session, h.HandleSetContactData)
	app.Post("/contact/identify", h.session, h.HandleSetIdentifier)
	app.Get("/session", h.session, h.HandleGetSession)
	app.Delete("/session", h.session, h.HandleFlushSession)
	app.Get("/status", h.session, h.HandleGetStatus)
	app.Get("/config/validate", h.HandleValidateConfig)
}

// HandleGetContact returns the profile of the session contact.
// @Summary Get Contact Profile
// @Description Returns identifiers, name and emails of the contact behind the current session.
// @Tags profile
// @Produce json
// @Success 200 {object} models.ContactProfile
// @Failure 409 {object} map[string]string "No active session"
// @Failure 502 {object} map[string]string "Facet store error"
// @Router /contact [get]
func (h *Handler) HandleGetContact(c *fiber.Ctx) error {
	profile, err := h.service.GetContactProfile(c.UserContext(), SessionFrom(c))
	if err != nil {
		return h.fail(c, "Failed to read contact profile", err)
	}
	return c.JSON(profile)
}

// HandleSetContactData updates name and preferred email of the session contact.
// @Summary Set Contact Data
// @Description Overwrites first and last name and makes the email the preferred address.
// @Tags profile
// @Accept json
// @Produce json
// @Param body body models.ContactDataRequest true "Contact data"
// @Success 204 "Updated"
// @Failure 400 {object} map[string]string "Invalid body"
// @Failure 409 {object} map[string]string "No active session"
// @Failure 502 {object} map[string]string "Facet store error"
// @Router /contact [put]
func (h *Handler) HandleSetContactData(c *fiber.Ctx) error {
	var req models.ContactDataRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if missing := missingFields(map[string]string{
		"firstName": req.FirstName,
		"lastName":  req.LastName,
		"email":     req.Email,
	}); len(missing) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing fields: " + strings.Join(missing, ", ")})
	}

	if err := h.service.SetContactData(c.UserContext(), SessionFrom(c), req.FirstName, req.LastName, req.Email); err != nil {
		return h.fail(c, "Failed to set contact data", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSetIdentifier binds the session to an external identifier.
// @Summary Identify Contact
// @Description Binds the current session to an identifier of the given source.
// @Tags profile
// @Accept json
// @Produce json
// @Param body body models.IdentifyRequest true "Identifier"
// @Success 204 "Identified"
// @Failure 400 {object} map[string]string "Invalid body"
// @Failure 409 {object} map[string]string "No active session"
// @Router /contact/identify [post]
func (h *Handler) HandleSetIdentifier(c *fiber.Ctx) error {
	var req models.IdentifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if missing := missingFields(map[string]string{
		"identifier": req.Identifier,
		"source":     req.Source,
	}); len(missing) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing fields: " + strings.Join(missing, ", ")})
	}

	if err := h.service.SetIdentifier(c.UserContext(), SessionFrom(c), req.Identifier, req.Source); err != nil {
		return h.fail(c, "Failed to set identifier", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetSession reports whether the request has an active session.
// @Summary Session State
// @Tags session
// @Produce json
// @Success 200 {object} models.SessionState
// @Router /session [get]
func (h *Handler) HandleGetSession(c *fiber.Ctx) error {
	sess := SessionFrom(c)
	state := models.SessionState{Active: h.service.IsSessionActive(sess)}
	if sess != nil {
		state.SessionID = sess.ID
	}
	return c.JSON(state)
}

// HandleFlushSession abandons the current session.
// @Summary Flush Session
// @Tags session
// @Success 204 "Flushed"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /session [delete]
func (h *Handler) HandleFlushSession(c *fiber.Ctx) error {
	if err := h.service.FlushSession(c.UserContext(), SessionFrom(c)); err != nil {
		return h.fail(c, "Failed to flush session", err)
	}
	clearSessionCookie(c, h.cookieName)
	c.Set(SessionHeader, "")
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetStatus probes the contact collection.
// @Summary Collection Status
// @Description Performs a round trip against the collection with the first identifier of the session.
// @Tags status
// @Produce json
// @Success 200 {object} models.ServiceStatus
// @Router /status [get]
func (h *Handler) HandleGetStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.GetStatus(c.UserContext(), SessionFrom(c)))
}

// HandleValidateConfig lists configuration problems.
// @Summary Validate Configuration
// @Tags status
// @Produce json
// @Success 200 {object} models.ConfigReport
// @Router /config/validate [get]
func (h *Handler) HandleValidateConfig(c *fiber.Ctx) error {
	messages := h.service.ValidateConfig()
	return c.JSON(models.ConfigReport{Valid: len(messages) == 0, Messages: messages})
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	l := logger.WithRayID(h.service.logger, c)
	switch {
	case errors.Is(err, ErrNoActiveSession):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrFacetStore):
		l.Error(msg, zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	default:
		l.Error(msg, zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

func missingFields(fields map[string]string) []string {
	var missing []string
	for _, name := range []string{"firstName", "lastName", "email", "identifier", "source"} {
		if v, ok := fields[name]; ok && strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
