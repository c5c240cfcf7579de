package api

import "github.com/gofiber/fiber/v2"

func (h *Handlers) history(c *fiber.Ctx) error {
	msgs, err := h.messages.History(c.Context(), callerID(c), c.Params("friendId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(msgs)
}

func (h *Handlers) sendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if !h.parseBody(c, &req) {
		return nil
	}
	msg, err := h.messages.Send(c.Context(), callerID(c), req.To, req.Text)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(msg)
}

func (h *Handlers) editMessage(c *fiber.Ctx) error {
	var req editMessageRequest
	if !h.parseBody(c, &req) {
		return nil
	}
	msg, err := h.messages.Edit(c.Context(), callerID(c), c.Params("messageId"), req.Text)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(msg)
}

func (h *Handlers) deleteMessage(c *fiber.Ctx) error {
	if err := h.messages.Delete(c.Context(), callerID(c), c.Params("messageId")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Deleted successfully"})
}

func (h *Handlers) notify(c *fiber.Ctx) error {
	var req notifyRequest
	if !h.parseBody(c, &req) {
		return nil
	}
	if h.notifier == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"msg": "notifications unavailable"})
	}
	if err := h.notifier.Notify(c.Context(), req.UserID, req.Message); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handlers) presenceStatus(c *fiber.Ctx) error {
	if h.presence == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"msg": "presence unavailable"})
	}
	online, err := h.presence.IsOnline(c.Context(), c.Params("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"online": online})
}
