package handlers

import (
	"strconv"
	"time"

	"centime/internal/repositories"
	"centime/internal/services/recurring"
	"centime/internal/services/transaction"
	"centime/internal/services/verification"
	"centime/internal/utils/pagination"
	"centime/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// TransactionHandler serves the ledger endpoints: create, verify, list,
// categorize and cancel recurring series.
type TransactionHandler struct {
	txs       transaction.Service
	verifier  *verification.Service
	schedules *recurring.Service
}

func NewTransactionHandler(txs transaction.Service, verifier *verification.Service, schedules *recurring.Service) *TransactionHandler {
	return &TransactionHandler{txs: txs, verifier: verifier, schedules: schedules}
}

func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var input struct {
		WalletID           uint    `json:"wallet_id"`
		Kind               string  `json:"kind"`
		Amount             string  `json:"amount"`
		RecipientWalletID  *uint   `json:"recipient_wallet_id"`
		CardID             *uint   `json:"card_id"`
		CategoryID         *uint   `json:"category_id"`
		Description        string  `json:"description"`
		RecurrenceInterval *string `json:"recurrence_interval"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		return response.BadRequest(c, "invalid amount")
	}

	result, err := h.txs.CreateTransaction(c.Context(), transaction.CreateRequest{
		WalletID:           input.WalletID,
		Kind:               input.Kind,
		Amount:             amount,
		RecipientWalletID:  input.RecipientWalletID,
		CardID:             input.CardID,
		CategoryID:         input.CategoryID,
		Description:        input.Description,
		RecurrenceInterval: input.RecurrenceInterval,
	}, userID)
	if err != nil {
		return response.DomainError(c, err)
	}

	if result.RequiresVerification {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status": "verification_required",
			"token":  result.VerificationToken,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(result.Transaction)
}

func (h *TransactionHandler) Verify(c *fiber.Ctx) error {
	var input struct {
		Token string `json:"token"`
		Code  string `json:"code"`
	}
	if err := c.BodyParser(&input); err != nil || input.Token == "" || input.Code == "" {
		return response.BadRequest(c, "token and code are required")
	}

	tx, err := h.verifier.Verify(c.Context(), input.Token, input.Code)
	if err != nil {
		return response.DomainError(c, err)
	}
	return c.JSON(tx)
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := pagination.ParseFromRequest(c)

	filter := repositories.TransactionFilter{
		Kind:   c.Query("kind"),
		Status: c.Query("status"),
	}
	if walletID, err := strconv.ParseUint(c.Query("wallet_id", "0"), 10, 32); err == nil {
		filter.WalletID = uint(walletID)
	}
	if categoryID, err := strconv.ParseUint(c.Query("category_id", "0"), 10, 32); err == nil {
		filter.CategoryID = uint(categoryID)
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filter.From = from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filter.To = to
	}

	txs, total, err := h.txs.FilterTransactions(c.Context(), userID, filter, p.Page, p.Limit)
	if err != nil {
		return response.ServerError(c, "failed to list transactions")
	}

	p.Total = total
	return c.JSON(pagination.Response(p, txs))
}

func (h *TransactionHandler) SetCategory(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	txID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid transaction id")
	}

	var input struct {
		CategoryID uint `json:"category_id"`
	}
	if err := c.BodyParser(&input); err != nil || input.CategoryID == 0 {
		return response.BadRequest(c, "category_id is required")
	}

	if err := h.txs.AddTransactionToCategory(c.Context(), userID, uint(txID), input.CategoryID); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "category set", nil)
}

func (h *TransactionHandler) CancelRecurring(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	scheduleID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid schedule id")
	}

	if err := h.schedules.Cancel(c.Context(), uint(scheduleID), userID); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "recurring series cancelled", nil)
}
