package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wichananm65/smoothie-order-form/internal/database"
)

const listIngredientsQuery = `SELECT FRUIT_NAME, SEARCH_ON FROM %s`

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db    *sql.DB
	query string
}

// NewPostgresRepository reads from table, which may be schema-qualified.
func NewPostgresRepository(db *sql.DB, table string) *PostgresRepository {
	return &PostgresRepository{
		db:    db,
		query: fmt.Sprintf(listIngredientsQuery, database.QuoteTable(table)),
	}
}

// List returns every row of the catalog table in store order. NULL columns
// come back as empty strings; the service decides what to do with them.
func (r *PostgresRepository) List(ctx context.Context) ([]Ingredient, error) {
	rows, err := r.db.QueryContext(ctx, r.query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Ingredient, 0)
	for rows.Next() {
		var name, searchOn sql.NullString
		if err := rows.Scan(&name, &searchOn); err != nil {
			return nil, err
		}
		out = append(out, Ingredient{Name: name.String, LookupKey: searchOn.String})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
