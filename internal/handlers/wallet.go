package handlers

import (
	"errors"
	"strconv"

	"centime/internal/services/wallet"
	"centime/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// WalletHandler serves wallet management endpoints.
type WalletHandler struct {
	wallets wallet.Service
}

func NewWalletHandler(wallets wallet.Service) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

func (h *WalletHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var input struct {
		Name             string `json:"name"`
		Currency         string `json:"currency"`
		Type             string `json:"type"`
		OverdraftEnabled bool   `json:"overdraft_enabled"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	w, err := h.wallets.CreateWallet(c.Context(), userID, wallet.CreateWalletInput{
		Name:             input.Name,
		Currency:         input.Currency,
		Type:             input.Type,
		OverdraftEnabled: input.OverdraftEnabled,
	})
	if err != nil {
		if errors.Is(err, wallet.ErrInvalidType) {
			return response.BadRequest(c, err.Error())
		}
		return response.DomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(w)
}

func (h *WalletHandler) Get(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	walletID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	w, err := h.wallets.GetWallet(c.Context(), userID, uint(walletID))
	if err != nil {
		return response.DomainError(c, err)
	}
	return c.JSON(w)
}

func (h *WalletHandler) List(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	ws, err := h.wallets.ListWallets(c.Context(), userID)
	if err != nil {
		return response.ServerError(c, "failed to list wallets")
	}
	return c.JSON(ws)
}

func (h *WalletHandler) AddMember(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	walletID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&input); err != nil || input.UserID == 0 {
		return response.BadRequest(c, "member user_id is required")
	}

	if err := h.wallets.AddMember(c.Context(), userID, uint(walletID), input.UserID); err != nil {
		switch {
		case errors.Is(err, wallet.ErrNotOwner), errors.Is(err, wallet.ErrNotJoint), errors.Is(err, wallet.ErrMemberExists):
			return response.BadRequest(c, err.Error())
		}
		return response.DomainError(c, err)
	}
	return response.Success(c, "member added", nil)
}

func (h *WalletHandler) SetOverdraft(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	walletID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := h.wallets.SetOverdraft(c.Context(), userID, uint(walletID), input.Enabled); err != nil {
		switch {
		case errors.Is(err, wallet.ErrNotOwner), errors.Is(err, wallet.ErrInvalidType):
			return response.BadRequest(c, err.Error())
		}
		return response.DomainError(c, err)
	}
	return response.Success(c, "overdraft updated", nil)
}
