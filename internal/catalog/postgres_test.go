package catalog

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productColumns = []string{
	"id", "name", "price", "description", "category", "subcategory", "brand", "rating",
	"review_count", "image_url", "features", "stores",
}

func newMockPostgres(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db, ""), mock
}

func TestPostgres_All(t *testing.T) {
	pg, mock := newMockPostgres(t)

	rows := sqlmock.NewRows(productColumns).
		AddRow("phone_001", "iPhone 15", 120000.0, "desc", "electronics", "smartphone", "Apple", 4.8,
			1250, "", "{5G,wireless}", []byte(`[{"name":"Amazon","price":119000,"shipping":0}]`)).
		AddRow("book_001", "Python入門", 2500.0, "", "books", "", "", 4.6, 450, "", "{}", []byte(`[]`))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "products" ORDER BY position, id`)).WillReturnRows(rows)

	products, err := pg.All(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, []string{"5G", "wireless"}, products[0].Features)
	require.Len(t, products[0].Stores, 1)
	assert.Equal(t, 119000.0, products[0].LowestPrice())
	assert.Empty(t, products[1].Features)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		pg, mock := newMockPostgres(t)
		rows := sqlmock.NewRows(productColumns).
			AddRow("food_001", "有機野菜セット", 3000.0, "", "food", "", "", 4.3, 1200, "", "{organic}", []byte(`[]`))
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1`)).WithArgs("food_001").WillReturnRows(rows)

		p, err := pg.Get(context.Background(), "food_001")
		require.NoError(t, err)
		assert.Equal(t, "有機野菜セット", p.Name)
	})

	t.Run("not found", func(t *testing.T) {
		pg, mock := newMockPostgres(t)
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1`)).WithArgs("x").
			WillReturnRows(sqlmock.NewRows(productColumns))

		_, err := pg.Get(context.Background(), "x")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("driver error", func(t *testing.T) {
		pg, mock := newMockPostgres(t)
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1`)).WillReturnError(errors.New("connection reset"))

		_, err := pg.Get(context.Background(), "x")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrProductNotFound)
	})
}

func TestPostgres_Upsert(t *testing.T) {
	pg, mock := newMockPostgres(t)
	products := SeedProducts()[:2]

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO "products"`))
	for range products {
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, pg.Upsert(context.Background(), products))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpsertRollsBack(t *testing.T) {
	pg, mock := newMockPostgres(t)

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO "products"`)).
		ExpectExec().WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := pg.Upsert(context.Background(), SeedProducts()[:1])
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_EnsureSchema(t *testing.T) {
	pg, mock := newMockPostgres(t)
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, pg.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
