package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/service"
)

func (h *Handlers) register(c *fiber.Ctx) error {
	var req registerRequest
	if !h.parseBody(c, &req) {
		return nil
	}
	user, token, err := h.users.Register(c.Context(), service.RegisterInput{
		Fullname: req.Fullname,
		DOB:      req.DOB,
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "You registered successfully!",
		"fullname": user.Fullname,
		"token":    token,
	})
}

func (h *Handlers) login(c *fiber.Ctx) error {
	var req loginRequest
	if !h.parseBody(c, &req) {
		return nil
	}
	user, token, err := h.users.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *Handlers) changePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if !h.parseBody(c, &req) {
		return nil
	}
	if err := h.users.ChangePassword(c.Context(), callerID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully."})
}
