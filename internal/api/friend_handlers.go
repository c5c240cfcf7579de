package api

import "github.com/gofiber/fiber/v2"

func (h *Handlers) directory(c *fiber.Ctx) error {
	users, err := h.friends.Directory(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(users)
}

func (h *Handlers) friendRequest(c *fiber.Ctx) error {
	if err := h.friends.Request(c.Context(), callerID(c), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Friend request sent"})
}

func (h *Handlers) pendingRequests(c *fiber.Ctx) error {
	reqs, err := h.friends.PendingRequests(c.Context(), callerID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(reqs)
}

func (h *Handlers) acceptFriend(c *fiber.Ctx) error {
	if err := h.friends.Accept(c.Context(), callerID(c), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Friend request accepted"})
}

func (h *Handlers) rejectFriend(c *fiber.Ctx) error {
	if err := h.friends.Reject(c.Context(), callerID(c), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Friend request rejected"})
}

func (h *Handlers) listFriends(c *fiber.Ctx) error {
	friends, err := h.friends.Friends(c.Context(), callerID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(friends)
}
