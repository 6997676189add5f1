package handlers

import (
	"errors"
	"strconv"

	"centime/internal/services/card"
	"centime/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// CardHandler serves card linking and management.
type CardHandler struct {
	cards *card.Service
}

func NewCardHandler(cards *card.Service) *CardHandler {
	return &CardHandler{cards: cards}
}

func (h *CardHandler) Link(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var input struct {
		CardNumber  string `json:"card_number"`
		CVV         string `json:"cvv"`
		ExpiryMonth int    `json:"expiry_month"`
		ExpiryYear  int    `json:"expiry_year"`
		HolderName  string `json:"holder_name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	record, err := h.cards.LinkCard(c.Context(), userID, card.ValidateInput{
		CardNumber:  input.CardNumber,
		CVV:         input.CVV,
		ExpiryMonth: input.ExpiryMonth,
		ExpiryYear:  input.ExpiryYear,
		HolderName:  input.HolderName,
	})
	if err != nil {
		if errors.Is(err, card.ErrCardInvalid) {
			return response.BadRequest(c, err.Error())
		}
		return response.ServerError(c, "failed to link card")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        record.ID,
		"card_type": record.CardType,
		"last_four": record.LastFour,
	})
}

func (h *CardHandler) List(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	cards, err := h.cards.GetUserCards(c.Context(), userID)
	if err != nil {
		return response.ServerError(c, "failed to list cards")
	}
	return c.JSON(cards)
}

func (h *CardHandler) Delete(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	cardID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid card id")
	}

	if err := h.cards.DeleteCard(c.Context(), userID, uint(cardID)); err != nil {
		switch {
		case errors.Is(err, card.ErrCardNotFound):
			return response.Error(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, card.ErrCardNotBelongToUser):
			return response.Error(c, fiber.StatusForbidden, err.Error())
		}
		return response.ServerError(c, "failed to delete card")
	}
	return response.Success(c, "card deleted", nil)
}
