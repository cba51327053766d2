package session

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"TransitGuard/domain"
	"TransitGuard/entities"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSessionRepository struct {
	sessions map[string]*entities.TransportSession
	fields   []*entities.FieldVerification
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: map[string]*entities.TransportSession{}}
}

func (f *fakeSessionRepository) CreateSession(_ context.Context, session *entities.TransportSession) error {
	f.sessions[session.ID.String()] = session
	return nil
}

func (f *fakeSessionRepository) CreateRegisteredSeals(_ context.Context, seals []*entities.RegisteredSeal) error {
	for _, seal := range seals {
		session := f.sessions[seal.SessionID.String()]
		session.RegisteredSeals = append(session.RegisteredSeals, seal)
	}
	return nil
}

func (f *fakeSessionRepository) GetSessionByID(_ context.Context, id string) (*entities.TransportSession, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (f *fakeSessionRepository) GetSessions(_ context.Context, createdBy string, _, _ int) ([]*entities.TransportSession, int64, error) {
	var sessions []*entities.TransportSession
	for _, session := range f.sessions {
		if createdBy == "" || session.CreatedBy.String() == createdBy {
			sessions = append(sessions, session)
		}
	}
	return sessions, int64(len(sessions)), nil
}

func (f *fakeSessionRepository) StartSession(_ context.Context, id string, startedBy string, startedAt time.Time) error {
	session, ok := f.sessions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	startedUUID, err := uuid.Parse(startedBy)
	if err != nil {
		return err
	}
	session.Status = string(domain.SessionStatusInProgress)
	session.StartedAt = &startedAt
	session.StartedBy = &startedUUID
	return nil
}

func (f *fakeSessionRepository) CreateFieldVerifications(_ context.Context, fields []*entities.FieldVerification) error {
	f.fields = append(f.fields, fields...)
	return nil
}

type noopActivityService struct{}

func (noopActivityService) Log(context.Context, uuid.UUID, uuid.UUID, string, string) {}
func (noopActivityService) GetSessionActivities(context.Context, string, int, int) ([]*domain.ActivityResponse, int64, error) {
	return nil, 0, nil
}

type fakeS3 struct{}

func (fakeS3) UploadFile(key string, _ *multipart.FileHeader, dir string, _ ...string) (string, error) {
	return dir + "/" + key, nil
}
func (fakeS3) DeleteFile(string) error            { return nil }
func (fakeS3) GetPublicLinkKey(key string) string { return "https://files.test/" + key }
func (fakeS3) GetObjectKeyFromLink(string) string { return "" }

func newService() (SessionService, *fakeSessionRepository) {
	repo := newFakeSessionRepository()
	return NewSessionService(repo, noopActivityService{}, fakeS3{}), repo
}

func createRequest() domain.CreateSessionRequest {
	return domain.CreateSessionRequest{
		Source:          "Jakarta",
		Destination:     "Surabaya",
		VehicleNumber:   "B 1234 XYZ",
		DriverName:      "Budi",
		DriverPhone:     "+628123456789",
		SealMethod:      domain.SealMethodManual,
		SealIdentifiers: []string{"A1", "A2", "A3"},
	}
}

func TestCreateSession(t *testing.T) {
	service, _ := newService()
	operatorID := uuid.New().String()

	resp, err := service.CreateSession(context.Background(), createRequest(), operatorID, domain.RoleOperator)
	require.NoError(t, err)

	assert.Equal(t, string(domain.SessionStatusPending), resp.Status)
	assert.Equal(t, operatorID, resp.CreatedBy)
	require.Len(t, resp.RegisteredSeals, 3)
	assert.Equal(t, "A1", resp.RegisteredSeals[0].Identifier)
}

func TestCreateSessionOperatorOnly(t *testing.T) {
	service, _ := newService()

	_, err := service.CreateSession(context.Background(), createRequest(), uuid.New().String(), domain.RoleGuard)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedSessionRole)
}

func TestCreateSessionRejectsDuplicateSeals(t *testing.T) {
	service, _ := newService()
	operatorID := uuid.New().String()

	req := createRequest()
	req.SealIdentifiers = []string{"A1", " a1 "}
	_, err := service.CreateSession(context.Background(), req, operatorID, domain.RoleOperator)
	assert.ErrorIs(t, err, domain.ErrDuplicateRegisteredSeal)

	req.SealIdentifiers = []string{"A1", "   "}
	_, err = service.CreateSession(context.Background(), req, operatorID, domain.RoleOperator)
	assert.ErrorIs(t, err, domain.ErrDuplicateRegisteredSeal)
}

func TestCreateSessionRequiresSeals(t *testing.T) {
	service, _ := newService()

	req := createRequest()
	req.SealIdentifiers = nil
	_, err := service.CreateSession(context.Background(), req, uuid.New().String(), domain.RoleOperator)
	assert.ErrorIs(t, err, domain.ErrNoSealsRegistered)
}

func TestStartSession(t *testing.T) {
	service, repo := newService()
	ctx := context.Background()

	created, err := service.CreateSession(ctx, createRequest(), uuid.New().String(), domain.RoleOperator)
	require.NoError(t, err)

	guardID := uuid.New().String()
	started, err := service.StartSession(ctx, created.ID, guardID, domain.RoleGuard)
	require.NoError(t, err)
	assert.Equal(t, string(domain.SessionStatusInProgress), started.Status)
	require.NotNil(t, started.StartedAt)

	// one verification row per declared field, seeded from the declaration
	require.Len(t, repo.fields, len(domain.DeclaredFields))
	byKey := map[string]*entities.FieldVerification{}
	for _, field := range repo.fields {
		byKey[field.FieldKey] = field
	}
	require.Contains(t, byKey, "source")
	assert.Equal(t, "Jakarta", byKey["source"].OperatorValue)
	assert.Equal(t, "Jakarta", byKey["source"].GuardValue)
	assert.False(t, byKey["source"].IsVerified)
}

func TestStartSessionGuardOnly(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	operatorID := uuid.New().String()
	created, err := service.CreateSession(ctx, createRequest(), operatorID, domain.RoleOperator)
	require.NoError(t, err)

	_, err = service.StartSession(ctx, created.ID, operatorID, domain.RoleOperator)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedSessionRole)
}

func TestStartSessionOnlyFromPending(t *testing.T) {
	service, repo := newService()
	ctx := context.Background()

	created, err := service.CreateSession(ctx, createRequest(), uuid.New().String(), domain.RoleOperator)
	require.NoError(t, err)

	guardID := uuid.New().String()
	_, err = service.StartSession(ctx, created.ID, guardID, domain.RoleGuard)
	require.NoError(t, err)

	// already InProgress
	_, err = service.StartSession(ctx, created.ID, guardID, domain.RoleGuard)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	// Completed never goes back
	repo.sessions[created.ID].Status = string(domain.SessionStatusCompleted)
	_, err = service.StartSession(ctx, created.ID, guardID, domain.RoleGuard)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestStartSessionNotFound(t *testing.T) {
	service, _ := newService()

	_, err := service.StartSession(context.Background(), uuid.New().String(), uuid.New().String(), domain.RoleGuard)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestGetSessionsScopedByRole(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	firstOperator := uuid.New().String()
	secondOperator := uuid.New().String()

	_, err := service.CreateSession(ctx, createRequest(), firstOperator, domain.RoleOperator)
	require.NoError(t, err)
	req := createRequest()
	req.SealIdentifiers = []string{"B1"}
	_, err = service.CreateSession(ctx, req, secondOperator, domain.RoleOperator)
	require.NoError(t, err)

	own, count, err := service.GetSessions(ctx, firstOperator, domain.RoleOperator, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, own, 1)
	assert.Equal(t, firstOperator, own[0].CreatedBy)

	all, count, err := service.GetSessions(ctx, uuid.New().String(), domain.RoleGuard, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Len(t, all, 2)
}
