package order

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wichananm65/smoothie-order-form/internal/database"
)

type PostgresRepository struct {
	db     *sql.DB
	insert string
}

// NewPostgresRepository writes to table, which may be schema qualified.
func NewPostgresRepository(db *sql.DB, table string) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		insert: fmt.Sprintf(`INSERT INTO %s (ingredients, name_on_order) VALUES ($1, $2)`, database.QuoteTable(table)),
	}
}

func (r *PostgresRepository) Insert(ctx context.Context, o PersistedOrder) error {
	_, err := r.db.ExecContext(ctx, r.insert, o.Ingredients, o.NameOnOrder)
	return err
}
