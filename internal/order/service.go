package order

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/wichananm65/smoothie-order-form/internal/logger"
)

// Service stores validated orders.
type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: logger.Component(log, "order")}
}

// Submit performs one insert for o. There is no retry and no duplicate
// check. A failed insert is logged here and returned as *PersistenceError.
func (s *Service) Submit(ctx context.Context, o ValidatedOrder) error {
	if err := s.repo.Insert(ctx, o.Persisted()); err != nil {
		fields := []zap.Field{
			zap.String("ingredients", o.Ingredients),
			zap.Int("ingredient_count", len(o.Names)),
			zap.Error(err),
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			fields = append(fields, zap.String("sqlstate", pgErr.Code), zap.String("table", pgErr.TableName))
		}
		s.log.Error("order insert failed", fields...)
		return &PersistenceError{Err: err}
	}
	s.log.Info("order stored", zap.String("ingredients", o.Ingredients))
	return nil
}
