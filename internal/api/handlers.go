package api

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/domain"
	"github.com/Nirmalamangrati/BackendOfPostflow/internal/service"
)

// PresenceReader answers online/offline lookups.
type PresenceReader interface {
	IsOnline(ctx context.Context, userID string) (bool, error)
}

type Handlers struct {
	users    *service.UserService
	friends  *service.FriendService
	posts    *service.PostService
	messages *service.MessageService
	presence PresenceReader
	notifier service.Notifier
	validate *validator.Validate
	log      *zap.SugaredLogger
}

// parseBody decodes and validates a request body; a false return means the
// 400 response has already been written.
func (h *Handlers) parseBody(c *fiber.Ctx, out any) bool {
	if err := c.BodyParser(out); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "invalid body"})
		return false
	}
	if err := h.validate.Struct(out); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": err.Error()})
		return false
	}
	return true
}

// fail translates service errors into the caller-visible failure shape.
func (h *Handlers) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = fiber.StatusNotFound
	default:
		h.log.Errorw("request failed", "path", c.Path(), "err", err)
		msg = "server error"
	}
	return c.Status(status).JSON(fiber.Map{"msg": msg})
}
