package coin

import (
	"context"
	"testing"

	"TransitGuard/domain"
	"TransitGuard/entities"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCoinRepository struct {
	packages     map[string]*entities.CoinPackage
	transactions []*entities.CoinTransaction
}

func newFakeCoinRepository() *fakeCoinRepository {
	return &fakeCoinRepository{packages: map[string]*entities.CoinPackage{}}
}

func (f *fakeCoinRepository) CreateCoinPackage(_ context.Context, pkg *entities.CoinPackage) error {
	f.packages[pkg.ID.String()] = pkg
	return nil
}

func (f *fakeCoinRepository) GetCoinPackages(_ context.Context) ([]*entities.CoinPackage, error) {
	var packages []*entities.CoinPackage
	for _, pkg := range f.packages {
		packages = append(packages, pkg)
	}
	return packages, nil
}

func (f *fakeCoinRepository) GetCoinPackageByID(_ context.Context, id string) (*entities.CoinPackage, error) {
	pkg, ok := f.packages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return pkg, nil
}

func (f *fakeCoinRepository) GetUserBalance(_ context.Context, userID string) (int, error) {
	// balance carried on the latest transaction
	for i := len(f.transactions) - 1; i >= 0; i-- {
		if f.transactions[i].UserID.String() == userID {
			return f.transactions[i].Balance, nil
		}
	}
	return 0, nil
}

func (f *fakeCoinRepository) GetUserCoinStats(ctx context.Context, userID string) (map[string]int, error) {
	stats := map[string]int{}
	for _, tx := range f.transactions {
		if tx.UserID.String() != userID {
			continue
		}
		switch tx.Type {
		case "Purchase":
			stats["total_purchased"] += tx.Amount
		case "Use":
			stats["total_used"] -= tx.Amount
		case "Reward":
			stats["total_rewarded"] += tx.Amount
		}
	}
	balance, _ := f.GetUserBalance(ctx, userID)
	stats["balance"] = balance
	return stats, nil
}

func (f *fakeCoinRepository) CreateCoinTransaction(_ context.Context, tx *entities.CoinTransaction) error {
	f.transactions = append(f.transactions, tx)
	return nil
}

func (f *fakeCoinRepository) GetUserCoinTransactions(_ context.Context, userID string, _, _ int) ([]*entities.CoinTransaction, int64, error) {
	var transactions []*entities.CoinTransaction
	for _, tx := range f.transactions {
		if tx.UserID.String() == userID {
			transactions = append(transactions, tx)
		}
	}
	return transactions, int64(len(transactions)), nil
}

type fakePaymentService struct {
	lastOrderUser    string
	lastOrderPackage string
}

func (f *fakePaymentService) CreateTransaction(_ context.Context, _ domain.PaymentRequest, userID, packageID string) (*domain.PaymentResponse, error) {
	f.lastOrderUser = userID
	f.lastOrderPackage = packageID
	return &domain.PaymentResponse{Invoice: "https://snap.test/invoice"}, nil
}

func (f *fakePaymentService) ParseOrderID(string) (string, string, error) { return "", "", nil }

func newCoinService() (CoinService, *fakeCoinRepository, *fakePaymentService) {
	repo := newFakeCoinRepository()
	pay := &fakePaymentService{}
	return NewCoinService(repo, pay), repo, pay
}

func starterPackage() *entities.CoinPackage {
	return &entities.CoinPackage{
		ID:     uuid.New(),
		Name:   "Starter",
		Amount: 100,
		Price:  15000,
	}
}

func TestBuyCoins(t *testing.T) {
	service, repo, pay := newCoinService()
	ctx := context.Background()

	pkg := starterPackage()
	require.NoError(t, repo.CreateCoinPackage(ctx, pkg))

	userID := uuid.New().String()
	resp, err := service.BuyCoins(ctx, domain.BuyCoinRequest{
		PackageID: pkg.ID.String(),
		Email:     "operator@transitguard.app",
	}, userID)
	require.NoError(t, err)

	assert.Equal(t, "https://snap.test/invoice", resp.InvoiceURL)
	assert.Equal(t, userID, pay.lastOrderUser)
	assert.Equal(t, pkg.ID.String(), pay.lastOrderPackage)
}

func TestBuyCoinsUnknownPackage(t *testing.T) {
	service, _, _ := newCoinService()

	_, err := service.BuyCoins(context.Background(), domain.BuyCoinRequest{
		PackageID: uuid.New().String(),
		Email:     "operator@transitguard.app",
	}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrInvalidCoinPackage)
}

func TestCreditPurchaseUpdatesBalance(t *testing.T) {
	service, repo, _ := newCoinService()
	ctx := context.Background()

	pkg := starterPackage()
	require.NoError(t, repo.CreateCoinPackage(ctx, pkg))

	userID := uuid.New().String()
	require.NoError(t, service.CreditPurchase(ctx, userID, pkg.ID.String()))

	balance, err := repo.GetUserBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 100, balance)
}

func TestUseCoins(t *testing.T) {
	service, repo, _ := newCoinService()
	ctx := context.Background()

	pkg := starterPackage()
	require.NoError(t, repo.CreateCoinPackage(ctx, pkg))
	userID := uuid.New().String()
	require.NoError(t, service.CreditPurchase(ctx, userID, pkg.ID.String()))

	require.NoError(t, service.UseCoins(ctx, userID, domain.COST_REPORT_EXPORT, "report_export", "session x"))

	balance, err := repo.GetUserBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 100-domain.COST_REPORT_EXPORT, balance)
}

func TestUseCoinsInsufficientBalance(t *testing.T) {
	service, _, _ := newCoinService()

	err := service.UseCoins(context.Background(), uuid.New().String(), domain.COST_REPORT_EXPORT, "report_export", "")
	assert.ErrorIs(t, err, domain.ErrInsufficientCoins)
}

func TestRewardCoins(t *testing.T) {
	service, repo, _ := newCoinService()
	ctx := context.Background()
	userID := uuid.New().String()

	require.NoError(t, service.RewardCoins(ctx, userID, domain.REWARD_COMPLETED_SESSION, "completed transport session"))

	balance, err := repo.GetUserBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.REWARD_COMPLETED_SESSION, balance)

	// non-positive rewards are a no-op
	require.NoError(t, service.RewardCoins(ctx, userID, 0, "nothing"))
	assert.Len(t, repo.transactions, 1)
}

func TestGetUserCoinsAggregates(t *testing.T) {
	service, repo, _ := newCoinService()
	ctx := context.Background()

	pkg := starterPackage()
	require.NoError(t, repo.CreateCoinPackage(ctx, pkg))
	userID := uuid.New().String()

	require.NoError(t, service.CreditPurchase(ctx, userID, pkg.ID.String()))
	require.NoError(t, service.RewardCoins(ctx, userID, 25, "completed transport session"))
	require.NoError(t, service.UseCoins(ctx, userID, 10, "report_export", ""))

	coins, err := service.GetUserCoins(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 115, coins.Balance)
	assert.Equal(t, 100, coins.TotalPurchased)
	assert.Equal(t, 10, coins.TotalUsed)
	assert.Equal(t, 25, coins.TotalRewarded)
}
