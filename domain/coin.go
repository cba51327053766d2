package domain

import (
	"errors"
)

var (
	MessageSuccessGetUserCoins    = "user coins retrieved successfully"
	MessageSuccessBuyCoins        = "coins purchased successfully"
	MessageSuccessGetCoinPackages = "coin packages retrieved successfully"
	MessageSuccessGetCoinHistory  = "coin transaction history retrieved successfully"
	MessageSuccessWebhookProcessed = "payment notification processed"

	MessageFailedGetUserCoins    = "failed to retrieve user coins"
	MessageFailedBuyCoins        = "failed to purchase coins"
	MessageFailedGetCoinPackages = "failed to retrieve coin packages"
	MessageFailedGetCoinHistory  = "failed to retrieve coin transaction history"
	MessageFailedWebhookProcess  = "failed to process payment notification"

	ErrInsufficientCoins  = errors.New("insufficient coins")
	ErrInvalidFeature     = errors.New("invalid premium feature")
	ErrInvalidCoinPackage = errors.New("invalid coin package")
	ErrPaymentFailed      = errors.New("payment processing failed")
)

const (
	// Feature costs
	COST_REPORT_EXPORT = 10

	// Reward values
	REWARD_COMPLETED_SESSION = 25
)

type (
	CoinPackage struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Amount      int     `json:"amount"`
		Price       float64 `json:"price"`
		Currency    string  `json:"currency"`
		Description string  `json:"description,omitempty"`
		IsPopular   bool    `json:"is_popular"`
	}

	BuyCoinRequest struct {
		PackageID string `json:"package_id" validate:"required"`
		Email     string `json:"email" validate:"required,email"`
	}

	BuyCoinResponse struct {
		TransactionID string `json:"transaction_id"`
		InvoiceURL    string `json:"invoice_url"`
	}

	UserCoins struct {
		Balance        int `json:"balance"`
		TotalPurchased int `json:"total_purchased"`
		TotalUsed      int `json:"total_used"`
		TotalRewarded  int `json:"total_rewarded"`
	}

	CoinTransaction struct {
		ID          string `json:"id"`
		Amount      int    `json:"amount"`
		Type        string `json:"type"`
		Feature     string `json:"feature,omitempty"`
		Description string `json:"description"`
		Balance     int    `json:"balance"`
	}

	PaymentRequest struct {
		Amount int64  `json:"amount"`
		Email  string `json:"email"`
	}

	PaymentResponse struct {
		Invoice string `json:"invoice"`
	}
)
