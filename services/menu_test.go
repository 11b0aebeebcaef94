package services

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const fruitQuery = `SELECT "fruit_name" FROM "fruit_options" ORDER BY "fruit_name"`

func fruitRows(names ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"fruit_name"})
	for _, n := range names {
		rows.AddRow(n)
	}
	return rows
}

func TestFruitService_Options(t *testing.T) {
	t.Run("returns names sorted ascending", func(t *testing.T) {
		db, mock := newMockDB(t)
		// Collation der Datenbank sortiert anders als bytewise
		mock.ExpectQuery(fruitQuery).WillReturnRows(fruitRows("apple", "Banana", "Mango", "Apple"))

		svc := NewFruitService(db, zap.NewNop(), "fruit_options", "fruit_name")
		names, err := svc.Options(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"Apple", "Banana", "Mango", "apple"}, names)
		assert.True(t, slices.IsSorted(names))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps duplicates", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(fruitQuery).WillReturnRows(fruitRows("Kiwi", "Kiwi"))

		names, err := NewFruitService(db, zap.NewNop(), "fruit_options", "fruit_name").Options(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"Kiwi", "Kiwi"}, names)
	})

	t.Run("re-reads on every call without cache", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(fruitQuery).WillReturnRows(fruitRows("Apple"))
		mock.ExpectQuery(fruitQuery).WillReturnRows(fruitRows("Apple", "Banana"))

		svc := NewFruitService(db, zap.NewNop(), "fruit_options", "fruit_name")
		first, err := svc.Options(context.Background())
		require.NoError(t, err)
		second, err := svc.Options(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []string{"Apple"}, first)
		assert.Equal(t, []string{"Apple", "Banana"}, second)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates backend failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(fruitQuery).WillReturnError(errors.New(`relation "fruit_options" does not exist`))

		names, err := NewFruitService(db, zap.NewNop(), "fruit_options", "fruit_name").Options(context.Background())

		assert.Nil(t, names)
		assert.ErrorContains(t, err, "load fruit options")
	})
}

func TestFruitService_Cache(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(fruitQuery).WillReturnRows(fruitRows("Apple"))
	mock.ExpectQuery(fruitQuery).WillReturnRows(fruitRows("Apple", "Mango"))

	svc := NewFruitService(db, zap.NewNop(), "fruit_options", "fruit_name").WithCache()
	require.True(t, svc.CacheEnabled())

	first, err := svc.Options(context.Background())
	require.NoError(t, err)
	cached, err := svc.Options(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	svc.Invalidate()
	fresh, err := svc.Options(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Mango"}, fresh)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFruitService_Refresh(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(fruitQuery).WillReturnRows(fruitRows("Apple"))
	mock.ExpectQuery(fruitQuery).WillReturnError(errors.New("connection reset"))

	svc := NewFruitService(db, zap.NewNop(), "fruit_options", "fruit_name").WithCache()
	require.NoError(t, svc.Refresh(context.Background()))
	assert.Error(t, svc.Refresh(context.Background()))

	// Ein fehlgeschlagener Refresh lässt den alten Stand stehen
	names, err := svc.Options(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple"}, names)
}
