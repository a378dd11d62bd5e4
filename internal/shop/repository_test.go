package shop

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_FindByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, name, password_hash, created_at FROM shops WHERE name = \$1`).
			WithArgs("Apollo").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "password_hash", "created_at"}).
				AddRow(id.String(), "Apollo", "hash", time.Now()))

		s, err := repo.FindByName(ctx, "Apollo")
		require.NoError(t, err)
		assert.Equal(t, id, s.ID)
		assert.Equal(t, "Apollo", s.Name)
		assert.Equal(t, "hash", s.PasswordHash)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM shops`).
			WithArgs("Nobody").
			WillReturnError(sql.ErrNoRows)

		s, err := repo.FindByName(ctx, "Nobody")
		assert.Nil(t, s)
		assert.ErrorIs(t, err, ErrShopNotFound)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM shops`).
			WithArgs("Apollo").
			WillReturnError(errors.New("connection refused"))

		_, err := repo.FindByName(ctx, "Apollo")
		assert.EqualError(t, err, "connection refused")
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`INSERT INTO shops \(name, password_hash\).*ON CONFLICT \(name\) DO UPDATE`).
		WithArgs("Apollo", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "password_hash", "created_at"}).
			AddRow(id.String(), "Apollo", "hash", time.Now()))

	s, err := repo.Upsert(context.Background(), "Apollo", "hash")
	require.NoError(t, err)
	assert.Equal(t, id, s.ID)

	mock.ExpectQuery(`INSERT INTO shops`).WillReturnError(errors.New("db error"))
	_, err = repo.Upsert(context.Background(), "Apollo", "hash")
	assert.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}
