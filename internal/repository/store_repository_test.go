package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/store-reservation/internal/apperr"
)

func newStoreRepoMock(t *testing.T) (*StoreRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewStoreRepo(db), mock, db
}

func storeRow(id, ownerID uint64, name, address string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "owner_id", "name", "address", "description", "created_at", "updated_at"}).
		AddRow(id, ownerID, name, address, "good food", now, now)
}

func TestStoreCreate_Success(t *testing.T) {
	repo, mock, db := newStoreRepoMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stores")).
		WithArgs(uint64(5), "Grill House", "1 Main St", "good food").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery("SELECT .+ FROM stores WHERE id").
		WithArgs(uint64(3)).
		WillReturnRows(storeRow(3, 5, "Grill House", "1 Main St"))

	st, err := repo.Create(context.Background(), 5, "Grill House", "1 Main St", "good food")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), st.ID)
	assert.Equal(t, "Grill House", st.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCreate_DuplicateNameAddress(t *testing.T) {
	repo, mock, db := newStoreRepoMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stores")).
		WithArgs(uint64(5), "Grill House", "1 Main St", "").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'Grill House-1 Main St' for key 'uq_stores_name_address'"))

	_, err := repo.Create(context.Background(), 5, "Grill House", "1 Main St", "")
	assert.ErrorIs(t, err, apperr.StoreAlreadyAdded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUpdate_ForeignStore(t *testing.T) {
	repo, mock, db := newStoreRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM stores WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(uint64(99)))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), 5, 3, "New Name", "1 Main St", "")
	assert.ErrorIs(t, err, apperr.StoreOwnerUnmatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUpdate_Missing(t *testing.T) {
	repo, mock, db := newStoreRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM stores WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), 5, 404, "New Name", "1 Main St", "")
	assert.ErrorIs(t, err, apperr.StoreDoesNotExist)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUpdate_Success(t *testing.T) {
	repo, mock, db := newStoreRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM stores WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(uint64(5)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE stores SET name = ?")).
		WithArgs("New Name", "1 Main St", "good food", uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT .+ FROM stores WHERE id").
		WithArgs(uint64(3)).
		WillReturnRows(storeRow(3, 5, "New Name", "1 Main St"))
	mock.ExpectCommit()

	st, err := repo.Update(context.Background(), 5, 3, "New Name", "1 Main St", "good food")
	require.NoError(t, err)
	assert.Equal(t, "New Name", st.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreDelete_Success(t *testing.T) {
	repo, mock, db := newStoreRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM stores WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(uint64(5)))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM stores WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 5, 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
