// Package handlers exposes the core services over HTTP. Handlers stay
// thin: parse, delegate, map errors.
package handlers

import (
	"errors"

	"centime/internal/services/user"
	"centime/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	users *user.Service
}

func NewAuthHandler(users *user.Service) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if input.Email == "" || input.Password == "" {
		return response.BadRequest(c, "email and password are required")
	}

	u, err := h.users.Register(c.Context(), input.Email, input.Name, input.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return response.Error(c, fiber.StatusConflict, err.Error())
		}
		return response.ServerError(c, "registration failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    u.ID,
		"email": u.Email,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	access, refresh, err := h.users.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, user.ErrUserBlocked) {
			return response.Error(c, fiber.StatusForbidden, err.Error())
		}
		return response.Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	return c.JSON(fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
	})
}
