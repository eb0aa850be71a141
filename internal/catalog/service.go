package catalog

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/wichananm65/smoothie-order-form/internal/logger"
)

// Service provides the catalog to the rest of the application.
type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: logger.Component(log, "catalog")}
}

// ListIngredients issues one read against the store and returns the
// orderable ingredients. An empty table yields an empty slice and no error.
// Rows without a name are dropped; a missing lookup key falls back to the
// fruit name.
func (s *Service) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("catalog read failed", zap.Error(err))
		return nil, &DataSourceError{Op: "list ingredients", Err: err}
	}

	out := make([]Ingredient, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			s.log.Warn("skipping catalog row without a fruit name", zap.String("search_on", row.LookupKey))
			continue
		}
		key := strings.TrimSpace(row.LookupKey)
		if key == "" {
			key = name
		}
		out = append(out, Ingredient{Name: name, LookupKey: key})
	}
	return out, nil
}

// Snapshot is ListIngredients packed into an immutable Catalog.
func (s *Service) Snapshot(ctx context.Context) (Catalog, error) {
	items, err := s.ListIngredients(ctx)
	if err != nil {
		return Catalog{}, err
	}
	return NewCatalog(items), nil
}
