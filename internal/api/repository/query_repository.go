package repository

import (
	"context"
	"ctchen222/mlb-compare/internal/api/models"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// QueryRepository stores the comparison history.
type QueryRepository interface {
	CreateQuery(ctx context.Context, q *models.PlayerQuery) error
	ListByUser(ctx context.Context, userID int64) ([]models.PlayerQuery, error)
}

type sqlQueryRepository struct {
	db *sqlx.DB
}

// NewQueryRepository creates a new SQL-backed QueryRepository.
func NewQueryRepository(db *sqlx.DB) QueryRepository {
	return &sqlQueryRepository{db: db}
}

// CreateQuery inserts q and fills in its ID. The caller sets Timestamp.
func (r *sqlQueryRepository) CreateQuery(ctx context.Context, q *models.PlayerQuery) error {
	ctx, span := tracer.Start(ctx, "QueryRepository.CreateQuery", trace.WithAttributes(
		attribute.Int64("user.id", q.UserID),
	))
	defer span.End()

	query := r.db.Rebind(`INSERT INTO player_queries (user_id, player1, player2, result, timestamp)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)
	err := r.db.GetContext(ctx, &q.ID, query, q.UserID, q.Player1, q.Player2, q.Result, q.Timestamp.UTC())
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create player query: %w", err)
	}
	return nil
}

// ListByUser returns every query of userID, newest first.
func (r *sqlQueryRepository) ListByUser(ctx context.Context, userID int64) ([]models.PlayerQuery, error) {
	ctx, span := tracer.Start(ctx, "QueryRepository.ListByUser", trace.WithAttributes(
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	queries := []models.PlayerQuery{}
	query := r.db.Rebind(`SELECT id, user_id, player1, player2, result, timestamp
		FROM player_queries WHERE user_id = ? ORDER BY timestamp DESC, id DESC`)
	if err := r.db.SelectContext(ctx, &queries, query, userID); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list player queries: %w", err)
	}
	return queries, nil
}
