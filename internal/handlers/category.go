package handlers

import (
	"strings"

	"centime/internal/models"
	"centime/internal/repositories"
	"centime/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler manages the user's spending categories. Categories are
// simple enough that the handler talks to the repository directly.
type CategoryHandler struct {
	categories repositories.CategoryRepository
}

func NewCategoryHandler(categories repositories.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var input struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return response.BadRequest(c, "name is required")
	}

	category := &models.Category{UserID: userID, Name: input.Name}
	if err := h.categories.Create(c.Context(), category); err != nil {
		return response.ServerError(c, "failed to create category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	categories, err := h.categories.ListByUser(c.Context(), userID)
	if err != nil {
		return response.ServerError(c, "failed to list categories")
	}
	return c.JSON(categories)
}
