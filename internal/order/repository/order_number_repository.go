package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// MySQLOrderNumberRepository hands out increasing numbers from an
// AUTO_INCREMENT table, which stays monotonic under concurrent callers.
type MySQLOrderNumberRepository struct {
	db *sql.DB
}

func NewMySQLOrderNumberRepository(db *sql.DB) *MySQLOrderNumberRepository {
	return &MySQLOrderNumberRepository{db: db}
}

func (r *MySQLOrderNumberRepository) Next(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO order_number_seq () VALUES ()`)
	if err != nil {
		return 0, fmt.Errorf("allocating order number: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading order number: %w", err)
	}
	return id, nil
}
