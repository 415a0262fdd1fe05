package repository

import (
	"context"
	"ctchen222/mlb-compare/internal/api/models"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"
)

var tracer = otel.Tracer("api.repository")

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks ctchen222/mlb-compare/internal/api/repository UserRepository,QueryRepository

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type sqlUserRepository struct {
	db   *sqlx.DB
	cost int
}

// NewUserRepository creates a new SQL-backed UserRepository hashing with bcrypt.DefaultCost.
func NewUserRepository(db *sqlx.DB) UserRepository {
	return NewUserRepositoryWithCost(db, bcrypt.DefaultCost)
}

// NewUserRepositoryWithCost is NewUserRepository with an explicit bcrypt cost.
func NewUserRepositoryWithCost(db *sqlx.DB, cost int) UserRepository {
	return &sqlUserRepository{db: db, cost: cost}
}

// CreateUser hashes the password and inserts a new user, filling in user.ID.
// A taken email yields ErrDuplicate.
func (r *sqlUserRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	ctx, span := tracer.Start(ctx, "UserRepository.CreateUser")
	defer span.End()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = string(hashedPassword)

	query := r.db.Rebind(`INSERT INTO users (name, email, hashed_password) VALUES (?, ?, ?) RETURNING id`)
	err = r.db.GetContext(ctx, &user.ID, query, user.Name, user.Email, user.HashedPassword)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		span.RecordError(err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by exact email match.
func (r *sqlUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetUserByEmail")
	defer span.End()

	var user models.User
	query := r.db.Rebind(`SELECT id, name, email, hashed_password FROM users WHERE email = ?`)
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No user found is not an application error
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}
