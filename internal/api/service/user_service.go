package service

import (
	"context"
	"ctchen222/mlb-compare/internal/api/models"
	"ctchen222/mlb-compare/internal/api/repository"
	"ctchen222/mlb-compare/internal/auth"
	"ctchen222/mlb-compare/internal/events"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/crypto/bcrypt"
)

var (
	tracer = otel.Tracer("api.service")
	meter  = otel.Meter("api.service")
)

// UserService defines the interface for account and credential logic.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) error
	Login(ctx context.Context, req *models.LoginRequest) (string, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type userService struct {
	userRepo      repository.UserRepository
	tokens        *auth.TokenManager
	publisher     events.Publisher
	loginAttempts metric.Int64Counter
}

// bcrypt only uses the first 72 bytes of a password.
const maxPasswordBytes = 72

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenManager, publisher events.Publisher) UserService {
	if publisher == nil {
		publisher = events.NopPublisher()
	}
	// The global meter provider never fails to create a counter.
	loginAttempts, _ := meter.Int64Counter("mlbcompare.login.attempts",
		metric.WithDescription("Login attempts by result"))
	return &userService{
		userRepo:      userRepo,
		tokens:        tokens,
		publisher:     publisher,
		loginAttempts: loginAttempts,
	}
}

// Register creates an account. No token is issued; the user logs in separately.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) error {
	ctx, span := tracer.Start(ctx, "UserService.Register")
	defer span.End()

	if len(req.Password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}

	// Check if user already exists
	existingUser, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if existingUser != nil {
		return ErrEmailTaken
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
	}

	if err := s.userRepo.CreateUser(ctx, user, req.Password); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrEmailTaken
		}
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return ErrPasswordTooLong
		}
		return err
	}

	s.publisher.Publish(ctx, events.TypeUserRegistered, events.UserRegisteredPayload{UserID: user.ID})
	return nil
}

// Login checks the credentials and returns a signed access token.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "UserService.Login")
	defer span.End()

	user, err := s.userRepo.GetUserByEmail(ctx, req.Username)
	if err != nil {
		return "", err
	}
	if user == nil {
		s.recordLogin(ctx, "rejected")
		return "", ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password))
	if err != nil {
		s.recordLogin(ctx, "rejected")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.recordLogin(ctx, "accepted")
	return token, nil
}

// Authenticate resolves a bearer token to its user. Every failure is ErrUnauthorized
// except store errors, which are returned as they are.
func (s *userService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()

	email, err := s.tokens.Subject(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (s *userService) recordLogin(ctx context.Context, result string) {
	s.loginAttempts.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
