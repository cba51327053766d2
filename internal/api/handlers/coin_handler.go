package handlers

import (
	"strconv"

	"TransitGuard/domain"
	"TransitGuard/internal/api/presenters"
	"TransitGuard/pkg/coin"
	"TransitGuard/pkg/payment"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	CoinHandler interface {
		GetCoinPackages(c *fiber.Ctx) error
		BuyCoins(c *fiber.Ctx) error
		GetUserCoins(c *fiber.Ctx) error
		GetCoinTransactionHistory(c *fiber.Ctx) error
		MidtransWebhookHandler(c *fiber.Ctx) error
	}

	coinHandler struct {
		coinService    coin.CoinService
		paymentService payment.PaymentService
		validator      *validator.Validate
	}
)

func NewCoinHandler(coinService coin.CoinService, paymentService payment.PaymentService, validator *validator.Validate) CoinHandler {
	return &coinHandler{
		coinService:    coinService,
		paymentService: paymentService,
		validator:      validator,
	}
}

func (h *coinHandler) GetCoinPackages(c *fiber.Ctx) error {
	packages, err := h.coinService.GetCoinPackages(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetCoinPackages, err)
	}

	return presenters.SuccessResponse(c, packages, fiber.StatusOK, domain.MessageSuccessGetCoinPackages)
}

func (h *coinHandler) BuyCoins(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.BuyCoinRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBuyCoins, err)
	}

	resp, err := h.coinService.BuyCoins(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBuyCoins, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessBuyCoins)
}

func (h *coinHandler) GetUserCoins(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	coins, err := h.coinService.GetUserCoins(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetUserCoins, err)
	}

	return presenters.SuccessResponse(c, coins, fiber.StatusOK, domain.MessageSuccessGetUserCoins)
}

func (h *coinHandler) GetCoinTransactionHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	transactions, count, err := h.coinService.GetCoinTransactionHistory(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetCoinHistory, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetCoinHistory)
}

// MidtransWebhookHandler receives Snap payment notifications. Only a
// settled (or captured and accepted) transaction credits the purchase;
// every other status is acknowledged and ignored so Midtrans stops
// retrying.
func (h *coinHandler) MidtransWebhookHandler(c *fiber.Ctx) error {
	var notification map[string]interface{}
	if err := c.BodyParser(&notification); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	orderID, _ := notification["order_id"].(string)
	transactionStatus, _ := notification["transaction_status"].(string)
	fraudStatus, _ := notification["fraud_status"].(string)

	settled := transactionStatus == "settlement" ||
		(transactionStatus == "capture" && fraudStatus == "accept")
	if !settled {
		return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessWebhookProcessed)
	}

	userID, packageID, err := h.paymentService.ParseOrderID(orderID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedWebhookProcess, err)
	}

	if err := h.coinService.CreditPurchase(c.Context(), userID, packageID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedWebhookProcess, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessWebhookProcessed)
}
