package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var countOrdersSQL = `SELECT COUNT\(\*\)\s+FROM \(\s+SELECT 1\s+FROM orders\s+WHERE shop_domain = \$1 AND customer_id = \$2\s+LIMIT \$3`

func TestPostgresOrderRepoCountOrders(t *testing.T) {
	t.Run("scans the bounded count", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(countOrdersSQL).
			WithArgs("example.myshopify.com", "123", 1).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		repo := NewPostgresOrderRepo(db, "example.myshopify.com")
		count, err := repo.CountOrders(context.Background(), "123", 1)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps query errors", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		boom := errors.New("connection reset")
		mock.ExpectQuery(countOrdersSQL).WillReturnError(boom)

		repo := NewPostgresOrderRepo(db, "example.myshopify.com")
		_, err = repo.CountOrders(context.Background(), "123", 1)
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
