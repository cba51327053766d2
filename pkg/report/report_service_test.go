package report

import (
	"context"
	"testing"
	"time"

	"TransitGuard/domain"
	"TransitGuard/entities"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeReportRepository struct {
	session *entities.TransportSession
	record  *entities.VerificationRecord
}

func (f *fakeReportRepository) GetSessionByID(_ context.Context, id string) (*entities.TransportSession, error) {
	if f.session == nil || f.session.ID.String() != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.session, nil
}

func (f *fakeReportRepository) GetVerificationRecord(_ context.Context, sessionID string) (*entities.VerificationRecord, error) {
	if f.record == nil || f.record.SessionID.String() != sessionID {
		return nil, gorm.ErrRecordNotFound
	}
	return f.record, nil
}

type fakeCoinCharger struct {
	charged   []int
	chargeErr error
}

func (f *fakeCoinCharger) GetCoinPackages(context.Context) ([]*domain.CoinPackage, error) {
	return nil, nil
}
func (f *fakeCoinCharger) BuyCoins(context.Context, domain.BuyCoinRequest, string) (*domain.BuyCoinResponse, error) {
	return nil, nil
}
func (f *fakeCoinCharger) CreditPurchase(context.Context, string, string) error { return nil }
func (f *fakeCoinCharger) UseCoins(_ context.Context, _ string, cost int, _, _ string) error {
	if f.chargeErr != nil {
		return f.chargeErr
	}
	f.charged = append(f.charged, cost)
	return nil
}
func (f *fakeCoinCharger) RewardCoins(context.Context, string, int, string) error { return nil }
func (f *fakeCoinCharger) GetUserCoins(context.Context, string) (*domain.UserCoins, error) {
	return nil, nil
}
func (f *fakeCoinCharger) GetCoinTransactionHistory(context.Context, string, int, int) ([]*domain.CoinTransaction, int64, error) {
	return nil, 0, nil
}

func completedFixture() (*entities.TransportSession, *entities.VerificationRecord) {
	sessionID := uuid.New()
	now := time.Now()
	session := &entities.TransportSession{
		ID:            sessionID,
		Source:        "Jakarta",
		Destination:   "Surabaya",
		VehicleNumber: "B 1234 XYZ",
		Status:        "Completed",
		CompletedAt:   &now,
	}
	record := &entities.VerificationRecord{
		ID:        uuid.New(),
		SessionID: sessionID,
		SealResults: entities.SealResultMap{
			uuid.New().String(): {Identifier: "A1", Status: "Verified"},
			uuid.New().String(): {Identifier: "A2", Status: "Missing"},
		},
		FieldResults: entities.FieldResultMap{
			"source": {OperatorValue: "Jakarta", GuardValue: "Jakarta", IsVerified: true, Matches: true},
		},
		VerifiedBy: uuid.New(),
		VerifiedAt: now,
	}
	return session, record
}

func TestExportVerificationReport(t *testing.T) {
	session, record := completedFixture()
	coins := &fakeCoinCharger{}
	service := NewReportService(&fakeReportRepository{session: session, record: record}, coins)

	f, filename, err := service.ExportVerificationReport(context.Background(), session.ID.String(), uuid.New().String())
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "verification-"+session.ID.String()+".xlsx", filename)

	// export charges the flat fee once
	assert.Equal(t, []int{domain.COST_REPORT_EXPORT}, coins.charged)

	value, err := f.GetCellValue("Sheet1", "B1")
	require.NoError(t, err)
	assert.Equal(t, session.ID.String(), value)

	route, err := f.GetCellValue("Sheet1", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Jakarta -> Surabaya", route)
}

func TestExportVerificationReportRequiresCompletion(t *testing.T) {
	session, record := completedFixture()
	session.Status = "InProgress"
	coins := &fakeCoinCharger{}
	service := NewReportService(&fakeReportRepository{session: session, record: record}, coins)

	_, _, err := service.ExportVerificationReport(context.Background(), session.ID.String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrReportNotAvailable)
	assert.Empty(t, coins.charged)
}

func TestExportVerificationReportMissingRecord(t *testing.T) {
	session, _ := completedFixture()
	service := NewReportService(&fakeReportRepository{session: session}, &fakeCoinCharger{})

	_, _, err := service.ExportVerificationReport(context.Background(), session.ID.String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrReportNotAvailable)
}

func TestExportVerificationReportInsufficientCoins(t *testing.T) {
	session, record := completedFixture()
	coins := &fakeCoinCharger{chargeErr: domain.ErrInsufficientCoins}
	service := NewReportService(&fakeReportRepository{session: session, record: record}, coins)

	_, _, err := service.ExportVerificationReport(context.Background(), session.ID.String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrInsufficientCoins)
}

func TestExportVerificationReportUnknownSession(t *testing.T) {
	service := NewReportService(&fakeReportRepository{}, &fakeCoinCharger{})

	_, _, err := service.ExportVerificationReport(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
