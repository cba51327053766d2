package coin

import (
	"TransitGuard/domain"
	"TransitGuard/entities"
	"TransitGuard/pkg/payment"
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	CoinService interface {
		GetCoinPackages(ctx context.Context) ([]*domain.CoinPackage, error)
		BuyCoins(ctx context.Context, req domain.BuyCoinRequest, userID string) (*domain.BuyCoinResponse, error)
		CreditPurchase(ctx context.Context, userID, packageID string) error
		UseCoins(ctx context.Context, userID string, cost int, feature, metadata string) error
		RewardCoins(ctx context.Context, userID string, amount int, reason string) error
		GetUserCoins(ctx context.Context, userID string) (*domain.UserCoins, error)
		GetCoinTransactionHistory(ctx context.Context, userID string, page, limit int) ([]*domain.CoinTransaction, int64, error)
	}

	coinService struct {
		coinRepository CoinRepository
		paymentService payment.PaymentService
	}
)

func NewCoinService(coinRepository CoinRepository, paymentService payment.PaymentService) CoinService {
	return &coinService{
		coinRepository: coinRepository,
		paymentService: paymentService,
	}
}

func (s *coinService) GetCoinPackages(ctx context.Context) ([]*domain.CoinPackage, error) {
	packages, err := s.coinRepository.GetCoinPackages(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.CoinPackage, 0, len(packages))
	for _, pkg := range packages {
		result = append(result, &domain.CoinPackage{
			ID:          pkg.ID.String(),
			Name:        pkg.Name,
			Amount:      pkg.Amount,
			Price:       pkg.Price,
			Currency:    pkg.Currency,
			Description: pkg.Description,
			IsPopular:   pkg.IsPopular,
		})
	}

	return result, nil
}

func (s *coinService) BuyCoins(ctx context.Context, req domain.BuyCoinRequest, userID string) (*domain.BuyCoinResponse, error) {
	pkg, err := s.coinRepository.GetCoinPackageByID(ctx, req.PackageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCoinPackage
		}
		return nil, err
	}

	paymentReq := domain.PaymentRequest{
		Amount: int64(pkg.Price),
		Email:  req.Email,
	}

	paymentResp, err := s.paymentService.CreateTransaction(ctx, paymentReq, userID, pkg.ID.String())
	if err != nil {
		return nil, domain.ErrPaymentFailed
	}

	return &domain.BuyCoinResponse{
		InvoiceURL: paymentResp.Invoice,
	}, nil
}

// CreditPurchase is called from the payment webhook once a coin purchase
// settles.
func (s *coinService) CreditPurchase(ctx context.Context, userID, packageID string) error {
	pkg, err := s.coinRepository.GetCoinPackageByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrInvalidCoinPackage
		}
		return err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	balance, err := s.coinRepository.GetUserBalance(ctx, userID)
	if err != nil {
		return err
	}

	transaction := &entities.CoinTransaction{
		ID:          uuid.New(),
		UserID:      userUUID,
		Amount:      pkg.Amount,
		Type:        "Purchase",
		Description: fmt.Sprintf("Purchased %s (%d coins)", pkg.Name, pkg.Amount),
		Balance:     balance + pkg.Amount,
	}

	return s.coinRepository.CreateCoinTransaction(ctx, transaction)
}

func (s *coinService) UseCoins(ctx context.Context, userID string, cost int, feature, metadata string) error {
	if cost <= 0 {
		return domain.ErrInvalidFeature
	}

	currentBalance, err := s.coinRepository.GetUserBalance(ctx, userID)
	if err != nil {
		return err
	}

	if currentBalance < cost {
		return domain.ErrInsufficientCoins
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	description := fmt.Sprintf("Used %d coins for %s", cost, feature)
	if metadata != "" {
		description += ": " + metadata
	}

	transaction := &entities.CoinTransaction{
		ID:          uuid.New(),
		UserID:      userUUID,
		Amount:      -cost, // Negative for spending
		Type:        "Use",
		Feature:     feature,
		Description: description,
		Balance:     currentBalance - cost,
	}

	return s.coinRepository.CreateCoinTransaction(ctx, transaction)
}

func (s *coinService) RewardCoins(ctx context.Context, userID string, amount int, reason string) error {
	if amount <= 0 {
		return nil
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	currentBalance, err := s.coinRepository.GetUserBalance(ctx, userID)
	if err != nil {
		return err
	}

	transaction := &entities.CoinTransaction{
		ID:          uuid.New(),
		UserID:      userUUID,
		Amount:      amount,
		Type:        "Reward",
		Feature:     "Reward",
		Description: fmt.Sprintf("Rewarded %d coins for %s", amount, reason),
		Balance:     currentBalance + amount,
	}

	return s.coinRepository.CreateCoinTransaction(ctx, transaction)
}

func (s *coinService) GetUserCoins(ctx context.Context, userID string) (*domain.UserCoins, error) {
	stats, err := s.coinRepository.GetUserCoinStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.UserCoins{
		Balance:        stats["balance"],
		TotalPurchased: stats["total_purchased"],
		TotalUsed:      stats["total_used"],
		TotalRewarded:  stats["total_rewarded"],
	}, nil
}

func (s *coinService) GetCoinTransactionHistory(ctx context.Context, userID string, page, limit int) ([]*domain.CoinTransaction, int64, error) {
	transactions, count, err := s.coinRepository.GetUserCoinTransactions(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.CoinTransaction, 0, len(transactions))
	for _, tx := range transactions {
		result = append(result, &domain.CoinTransaction{
			ID:          tx.ID.String(),
			Amount:      tx.Amount,
			Type:        tx.Type,
			Feature:     tx.Feature,
			Description: tx.Description,
			Balance:     tx.Balance,
		})
	}

	return result, count, nil
}
