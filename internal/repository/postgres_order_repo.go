package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresOrderRepo reads order history from a local mirror of the shop's
// orders, for deployments that sync orders out of the admin API.
type PostgresOrderRepo struct {
	db         *sql.DB
	shopDomain string
}

func NewPostgresOrderRepo(db *sql.DB, shopDomain string) *PostgresOrderRepo {
	return &PostgresOrderRepo{db: db, shopDomain: shopDomain}
}

func (r *PostgresOrderRepo) CountOrders(ctx context.Context, customerID string, limit int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM (
			SELECT 1
			FROM orders
			WHERE shop_domain = $1 AND customer_id = $2
			LIMIT $3
		) AS recent
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, r.shopDomain, customerID, limit).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}
