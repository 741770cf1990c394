package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/store-reservation/internal/apperr"
	"github.com/iliyamo/store-reservation/internal/model"
)

func newReservationRepoMock(t *testing.T) (*ReservationRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewReservationRepo(db), mock, db
}

func reserveSlot(t *testing.T) time.Time {
	t.Helper()
	at, err := time.Parse("2006-01-02 15:04", "2026-09-01 19:00")
	require.NoError(t, err)
	return at
}

func TestReservationCreate_Success(t *testing.T) {
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()
	at := reserveSlot(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM stores WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Grill House"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservations")).
		WithArgs(uint64(7), uint64(3), at).
		WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).
		WithArgs(uint64(3), uint64(7), at, "010-1234", model.StatePending).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	view, err := repo.Create(context.Background(), 7, 3, at, "010-1234")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), view.ID)
	assert.Equal(t, "Grill House", view.StoreName)
	assert.Equal(t, "2026-09-01 19:00", view.ReservedAt)
	assert.Equal(t, model.StatePending, view.State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreate_DuplicateSlot(t *testing.T) {
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()
	at := reserveSlot(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM stores WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Grill House"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservations")).
		WithArgs(uint64(7), uint64(3), at).
		WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(1))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), 7, 3, at, "010-1234")
	assert.ErrorIs(t, err, apperr.DuplicatedReservation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreate_StoreMissing(t *testing.T) {
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM stores WHERE id = ?")).
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), 7, 99, reserveSlot(t), "010-1234")
	assert.ErrorIs(t, err, apperr.StoreDoesNotExist)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func decideRow(at time.Time, state string, ownerID uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"store_id", "account_id", "reserved_at", "contact", "state", "owner_id", "name"}).
		AddRow(uint64(3), uint64(7), at, "010-1234", state, ownerID, "Grill House")
}

func TestReservationDecide_AcceptPending(t *testing.T) {
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()
	at := reserveSlot(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT r.store_id, r.account_id").
		WithArgs(uint64(42)).
		WillReturnRows(decideRow(at, model.StatePending, 5))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET state = ?")).
		WithArgs(model.StateAccepted, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	dec, err := repo.Decide(context.Background(), 5, 42, model.StateAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.StateAccepted, dec.View.State)
	assert.Equal(t, uint64(3), dec.StoreID)
	assert.Equal(t, uint64(7), dec.AccountID)
	assert.Equal(t, "010-1234", dec.Contact)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationDecide_CanceledIsFinal(t *testing.T) {
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT r.store_id, r.account_id").
		WithArgs(uint64(42)).
		WillReturnRows(decideRow(reserveSlot(t), model.StateCanceled, 5))
	mock.ExpectRollback()

	_, err := repo.Decide(context.Background(), 5, 42, model.StateAccepted)
	assert.ErrorIs(t, err, apperr.ReservationCanceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationDecide_RedecideAccepted(t *testing.T) {
	// An already accepted reservation may still be rejected; only a
	// cancellation is final.
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT r.store_id, r.account_id").
		WithArgs(uint64(42)).
		WillReturnRows(decideRow(reserveSlot(t), model.StateAccepted, 5))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET state = ?")).
		WithArgs(model.StateRejected, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	dec, err := repo.Decide(context.Background(), 5, 42, model.StateRejected)
	require.NoError(t, err)
	assert.Equal(t, model.StateRejected, dec.View.State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationDecide_ForeignStore(t *testing.T) {
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT r.store_id, r.account_id").
		WithArgs(uint64(42)).
		WillReturnRows(decideRow(reserveSlot(t), model.StatePending, 99))
	mock.ExpectRollback()

	_, err := repo.Decide(context.Background(), 5, 42, model.StateAccepted)
	assert.ErrorIs(t, err, apperr.ReservationStoreOwnerUnmatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCancel_ForeignReservation(t *testing.T) {
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT r.account_id, r.reserved_at").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "reserved_at", "name"}).
			AddRow(uint64(8), reserveSlot(t), "Grill House"))
	mock.ExpectRollback()

	_, err := repo.Cancel(context.Background(), 7, 42)
	assert.ErrorIs(t, err, apperr.ReservationOwnerUnmatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCancel_Success(t *testing.T) {
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT r.account_id, r.reserved_at").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "reserved_at", "name"}).
			AddRow(uint64(7), reserveSlot(t), "Grill House"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET state = ?")).
		WithArgs(model.StateCanceled, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	view, err := repo.Cancel(context.Background(), 7, 42)
	require.NoError(t, err)
	assert.Equal(t, model.StateCanceled, view.State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteReview_Success(t *testing.T) {
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT r.account_id, r.visited").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "visited", "name"}).
			AddRow(uint64(7), true, "Grill House"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET stars = ?, review = ?")).
		WithArgs(4, "great food", uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rv, err := repo.WriteReview(context.Background(), 7, 42, 4, "great food")
	require.NoError(t, err)
	assert.Equal(t, uint8(4), rv.Stars)
	assert.Equal(t, "great food", rv.Review)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteReview_BeforeVisit(t *testing.T) {
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT r.account_id, r.visited").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "visited", "name"}).
			AddRow(uint64(7), false, "Grill House"))
	mock.ExpectRollback()

	_, err := repo.WriteReview(context.Background(), 7, 42, 4, "great food")
	assert.ErrorIs(t, err, apperr.UnvisitedReservation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteReview_StarsOutOfRange(t *testing.T) {
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()

	for _, stars := range []int{0, 6, -1} {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT r.account_id, r.visited").
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"account_id", "visited", "name"}).
				AddRow(uint64(7), true, "Grill House"))
		mock.ExpectRollback()

		_, err := repo.WriteReview(context.Background(), 7, 42, stars, "meh")
		assert.ErrorIs(t, err, apperr.StarsMustBetween1To5, "stars=%d", stars)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func arrivalRows(state string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "state"}).AddRow(uint64(42), state)
}

func TestConfirmArrival_Success(t *testing.T) {
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()
	at := reserveSlot(t)
	now := at.Add(-30 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM stores WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Grill House"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, state FROM reservations")).
		WithArgs(uint64(3), at, "010-1234").
		WillReturnRows(arrivalRows(model.StateAccepted))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET visited = 1")).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	view, err := repo.ConfirmArrival(context.Background(), 3, at, "010-1234", now, 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, view.Visited)
	assert.Equal(t, "2026-09-01 19:00", view.ReservedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmArrival_LateArrival(t *testing.T) {
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()
	at := reserveSlot(t)

	// 19:00 reservation, ten minute cutoff: anything after 18:50 is late,
	// including 18:50:01 and the reservation time itself.
	for _, now := range []time.Time{
		at.Add(-10*time.Minute + time.Second),
		at,
		at.Add(time.Hour),
	} {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM stores WHERE id = ?")).
			WithArgs(uint64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Grill House"))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, state FROM reservations")).
			WithArgs(uint64(3), at, "010-1234").
			WillReturnRows(arrivalRows(model.StateAccepted))
		mock.ExpectRollback()

		_, err := repo.ConfirmArrival(context.Background(), 3, at, "010-1234", now, 10*time.Minute)
		assert.ErrorIs(t, err, apperr.LateArrival, "now=%s", now)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmArrival_ExactlyAtCutoff(t *testing.T) {
	// Arriving exactly ten minutes ahead is still in time: the window
	// closes strictly after reservation-10m.
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()
	at := reserveSlot(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM stores WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Grill House"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, state FROM reservations")).
		WithArgs(uint64(3), at, "010-1234").
		WillReturnRows(arrivalRows(model.StateAccepted))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET visited = 1")).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := repo.ConfirmArrival(context.Background(), 3, at, "010-1234", at.Add(-10*time.Minute), 10*time.Minute)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmArrival_NotAccepted(t *testing.T) {
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()
	at := reserveSlot(t)

	for _, state := range []string{model.StatePending, model.StateRejected, model.StateCanceled} {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM stores WHERE id = ?")).
			WithArgs(uint64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Grill House"))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, state FROM reservations")).
			WithArgs(uint64(3), at, "010-1234").
			WillReturnRows(arrivalRows(state))
		mock.ExpectRollback()

		_, err := repo.ConfirmArrival(context.Background(), 3, at, "010-1234", at.Add(-time.Hour), 10*time.Minute)
		assert.ErrorIs(t, err, apperr.UnacceptedReservation, "state=%s", state)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmArrival_NoMatchingTriple(t *testing.T) {
	repo, mock, db := newReservationRepoMock(t)
	defer db.Close()
	at := reserveSlot(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM stores WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Grill House"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, state FROM reservations")).
		WithArgs(uint64(3), at, "000-0000").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.ConfirmArrival(context.Background(), 3, at, "000-0000", at.Add(-time.Hour), 10*time.Minute)
	assert.ErrorIs(t, err, apperr.ReservationDoesNotExist)
	assert.NoError(t, mock.ExpectationsWereMet())
}
