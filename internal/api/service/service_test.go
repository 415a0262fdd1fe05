package service

import (
	"context"
	"ctchen222/mlb-compare/internal/api/models"
	"ctchen222/mlb-compare/internal/api/repository"
	"ctchen222/mlb-compare/internal/api/repository/mocks"
	"ctchen222/mlb-compare/internal/auth"
	"ctchen222/mlb-compare/internal/gateway"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

type publishedEvent struct {
	eventType string
	payload   any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{eventType, payload})
}

type stubComparer struct {
	result gateway.Result
	calls  int
}

func (s *stubComparer) Compare(context.Context, string, string) gateway.Result {
	s.calls++
	return s.result
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegister_CreatesUserAndPublishes(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	pub := &recordingPublisher{}
	svc := NewUserService(repo, auth.NewTokenManager([]byte("k"), 0), pub)

	repo.EXPECT().GetUserByEmail(gomock.Any(), "alice@example.com").Return(nil, nil)
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any(), "pw").
		DoAndReturn(func(_ context.Context, u *models.User, _ string) error {
			assert.Equal(t, "Alice", u.Name)
			assert.Equal(t, "alice@example.com", u.Email)
			u.ID = 11
			return nil
		})

	err := svc.Register(context.Background(), &models.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "user_registered", pub.events[0].eventType)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	pub := &recordingPublisher{}
	svc := NewUserService(repo, auth.NewTokenManager([]byte("k"), 0), pub)

	repo.EXPECT().GetUserByEmail(gomock.Any(), "alice@example.com").Return(&models.User{ID: 1, Email: "alice@example.com"}, nil)
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := svc.Register(context.Background(), &models.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Empty(t, pub.events)
}

func TestRegister_DuplicateRaceMapsToConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repo, auth.NewTokenManager([]byte("k"), 0), nil)

	repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, nil)
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).Return(repository.ErrDuplicate)

	err := svc.Register(context.Background(), &models.RegisterRequest{Name: "A", Email: "a@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repo, auth.NewTokenManager([]byte("k"), 0), nil)

	repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Times(0)
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := svc.Register(context.Background(), &models.RegisterRequest{Name: "A", Email: "a@example.com", Password: strings.Repeat("p", 73)})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestRegister_HashRejectionMapsToTooLong(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repo, auth.NewTokenManager([]byte("k"), 0), nil)

	repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, nil)
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("failed to hash password: %w", bcrypt.ErrPasswordTooLong))

	err := svc.Register(context.Background(), &models.RegisterRequest{Name: "A", Email: "a@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestRegister_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repo, auth.NewTokenManager([]byte("k"), 0), nil)

	storeErr := errors.New("db down")
	repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, storeErr)

	err := svc.Register(context.Background(), &models.RegisterRequest{Name: "A", Email: "a@example.com", Password: "pw"})
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repo, auth.NewTokenManager([]byte("k"), 0), nil)

	repo.EXPECT().GetUserByEmail(gomock.Any(), "alice@example.com").
		Return(&models.User{ID: 1, Email: "alice@example.com", HashedPassword: hashed(t, "right")}, nil)
	repo.EXPECT().GetUserByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

	_, wrongPassword := svc.Login(context.Background(), &models.LoginRequest{Username: "alice@example.com", Password: "wrong"})
	_, unknownUser := svc.Login(context.Background(), &models.LoginRequest{Username: "ghost@example.com", Password: "right"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLogin_IssuesTokenForEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	tokens := auth.NewTokenManager([]byte("k"), 0)
	svc := NewUserService(repo, tokens, nil)

	repo.EXPECT().GetUserByEmail(gomock.Any(), "alice@example.com").
		Return(&models.User{ID: 1, Email: "alice@example.com", HashedPassword: hashed(t, "right")}, nil)

	token, err := svc.Login(context.Background(), &models.LoginRequest{Username: "alice@example.com", Password: "right"})
	require.NoError(t, err)

	sub, err := tokens.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", sub)
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewTokenManager([]byte("k"), 0)
	valid, err := tokens.Issue("alice@example.com")
	require.NoError(t, err)
	orphan, err := tokens.Issue("deleted@example.com")
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repo, tokens, nil)

	alice := &models.User{ID: 1, Email: "alice@example.com"}
	repo.EXPECT().GetUserByEmail(gomock.Any(), "alice@example.com").Return(alice, nil)
	repo.EXPECT().GetUserByEmail(gomock.Any(), "deleted@example.com").Return(nil, nil)

	got, err := svc.Authenticate(context.Background(), valid)
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	_, err = svc.Authenticate(context.Background(), orphan)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCompareAndRecord_PersistsDegradedFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockQueryRepository(ctrl)
	pub := &recordingPublisher{}
	comparer := &stubComparer{result: gateway.Degraded("network unreachable")}
	svc := NewComparisonService(comparer, repo, pub)

	var stored *models.PlayerQuery
	repo.EXPECT().CreateQuery(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q *models.PlayerQuery) error {
			stored = q
			q.ID = 5
			return nil
		})

	user := &models.User{ID: 3}
	q, err := svc.CompareAndRecord(context.Background(), user, "Mike Trout", "Shohei Ohtani")
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, gateway.FallbackMessage, q.Result)
	assert.Equal(t, int64(3), stored.UserID)
	assert.Equal(t, "Mike Trout", stored.Player1)
	assert.Equal(t, "Shohei Ohtani", stored.Player2)
	assert.Equal(t, time.UTC, stored.Timestamp.Location())
	assert.WithinDuration(t, time.Now(), stored.Timestamp, time.Minute)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "comparison_recorded", pub.events[0].eventType)
}

func TestCompareAndRecord_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockQueryRepository(ctrl)
	pub := &recordingPublisher{}
	comparer := &stubComparer{result: gateway.Generated("analysis")}
	svc := NewComparisonService(comparer, repo, pub)

	repo.EXPECT().CreateQuery(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	q, err := svc.CompareAndRecord(context.Background(), &models.User{ID: 3}, "A", "B")
	assert.Error(t, err)
	assert.Nil(t, q)
	assert.Equal(t, 1, comparer.calls)
	assert.Empty(t, pub.events)
}

func TestHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockQueryRepository(ctrl)
	svc := NewComparisonService(&stubComparer{}, repo, nil)

	want := []models.PlayerQuery{{ID: 2, UserID: 9}, {ID: 1, UserID: 9}}
	repo.EXPECT().ListByUser(gomock.Any(), int64(9)).Return(want, nil)

	got, err := svc.History(context.Background(), &models.User{ID: 9})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
