package service

import (
	"context"
	"ctchen222/mlb-compare/internal/api/models"
	"ctchen222/mlb-compare/internal/api/repository"
	"ctchen222/mlb-compare/internal/events"
	"ctchen222/mlb-compare/internal/gateway"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ComparisonService runs comparisons and keeps the per-user history.
type ComparisonService interface {
	CompareAndRecord(ctx context.Context, user *models.User, player1, player2 string) (*models.PlayerQuery, error)
	History(ctx context.Context, user *models.User) ([]models.PlayerQuery, error)
}

type comparisonService struct {
	comparer  gateway.Comparer
	queryRepo repository.QueryRepository
	publisher events.Publisher
	now       func() time.Time
}

// NewComparisonService creates a new ComparisonService.
func NewComparisonService(comparer gateway.Comparer, queryRepo repository.QueryRepository, publisher events.Publisher) ComparisonService {
	if publisher == nil {
		publisher = events.NopPublisher()
	}
	return &comparisonService{
		comparer:  comparer,
		queryRepo: queryRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

// CompareAndRecord asks the gateway for a comparison and stores it. A degraded
// gateway result is stored as its fallback text like any other result. Only a
// storage failure is returned as an error.
func (s *comparisonService) CompareAndRecord(ctx context.Context, user *models.User, player1, player2 string) (*models.PlayerQuery, error) {
	ctx, span := tracer.Start(ctx, "ComparisonService.CompareAndRecord", trace.WithAttributes(
		attribute.Int64("user.id", user.ID),
	))
	defer span.End()

	result := s.comparer.Compare(ctx, player1, player2)
	span.SetAttributes(attribute.Bool("comparison.degraded", result.IsDegraded()))

	q := &models.PlayerQuery{
		UserID:    user.ID,
		Player1:   player1,
		Player2:   player2,
		Result:    result.Text(),
		Timestamp: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.queryRepo.CreateQuery(ctx, q); err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "Failed to store comparison", "user.id", user.ID, "error", err)
		return nil, fmt.Errorf("failed to record comparison: %w", err)
	}

	s.publisher.Publish(ctx, events.TypeComparisonRecorded, events.ComparisonRecordedPayload{
		QueryID:  q.ID,
		UserID:   user.ID,
		Player1:  player1,
		Player2:  player2,
		Degraded: result.IsDegraded(),
	})
	return q, nil
}

// History returns the user's comparisons, newest first.
func (s *comparisonService) History(ctx context.Context, user *models.User) ([]models.PlayerQuery, error) {
	ctx, span := tracer.Start(ctx, "ComparisonService.History", trace.WithAttributes(
		attribute.Int64("user.id", user.ID),
	))
	defer span.End()

	return s.queryRepo.ListByUser(ctx, user.ID)
}
