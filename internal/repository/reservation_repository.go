package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/store-reservation/internal/apperr"
	"github.com/iliyamo/store-reservation/internal/model"
	"github.com/iliyamo/store-reservation/internal/utils"
)

// ReservationRepo drives the reservation lifecycle: creation with the
// duplicate-booking guard, the owner's confirm/reject decision, the
// requester's cancel, kiosk arrival check-in and review writing.  Every
// state change is one transaction that locks the affected row(s) with
// SELECT ... FOR UPDATE, so the read-check-write sequences cannot race
// each other (two confirmations, a cancel racing a check-in, or a
// double-booking through the duplicate check).
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ReservationView is the projection returned to the reserving customer:
// the store name, the reservation time in wire format and the state.
type ReservationView struct {
	ID         uint64 `json:"id"`
	StoreName  string `json:"store_name"`
	ReservedAt string `json:"reserved_at"`
	State      string `json:"state"`
}

// OwnerReservationView is the projection returned to store owners.  It
// additionally exposes the contact string and visited flag so owners can
// prepare for arrivals.
type OwnerReservationView struct {
	ID         uint64 `json:"id"`
	StoreID    uint64 `json:"store_id"`
	StoreName  string `json:"store_name"`
	ReservedAt string `json:"reserved_at"`
	Contact    string `json:"contact"`
	State      string `json:"state"`
	Visited    bool   `json:"visited"`
}

// ArrivalView is returned by the kiosk check-in.
type ArrivalView struct {
	StoreName  string `json:"store_name"`
	ReservedAt string `json:"reserved_at"`
	Visited    bool   `json:"visited"`
}

// ReviewView is returned after a review is written or overwritten.
type ReviewView struct {
	StoreName string `json:"store_name"`
	Stars     uint8  `json:"stars"`
	Review    string `json:"review"`
}

// Decision carries the outcome of a confirm/reject together with the raw
// fields the event publisher needs.
type Decision struct {
	View       ReservationView
	StoreID    uint64
	AccountID  uint64
	ReservedAt time.Time
	Contact    string
}

// Create books a reservation for accountID at storeID.  The store lookup,
// the duplicate check and the insert run in one transaction; matching
// reservation rows are locked so two concurrent requests for the same
// (account, store, time) triple serialize and the loser sees the
// duplicate.  The match is exact equality on the minute-precision time,
// no interval logic.  New reservations start PENDING and unvisited.
func (r *ReservationRepo) Create(ctx context.Context, accountID, storeID uint64, reservedAt time.Time, contact string) (view *ReservationView, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var storeName string
	err = tx.QueryRowContext(ctx, "SELECT name FROM stores WHERE id = ?", storeID).Scan(&storeName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.StoreDoesNotExist
	}
	if err != nil {
		return nil, err
	}

	var n int64
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations
		 WHERE account_id = ? AND store_id = ? AND reserved_at = ? FOR UPDATE`,
		accountID, storeID, reservedAt).Scan(&n)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, apperr.DuplicatedReservation
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (store_id, account_id, reserved_at, contact, state)
		 VALUES (?, ?, ?, ?, ?)`,
		storeID, accountID, reservedAt, contact, model.StatePending)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &ReservationView{
		ID:         uint64(id),
		StoreName:  storeName,
		ReservedAt: utils.FormatReserveTime(reservedAt),
		State:      model.StatePending,
	}, nil
}

// ListForOwner returns every reservation across all stores owned by
// ownerID, ordered by store descending then reservation time descending.
// Read-only, no locks.
func (r *ReservationRepo) ListForOwner(ctx context.Context, ownerID uint64) ([]OwnerReservationView, error) {
	const q = `SELECT r.id, r.store_id, s.name, r.reserved_at, r.contact, r.state, r.visited
	           FROM reservations r
	           JOIN stores s ON s.id = r.store_id
	           WHERE s.owner_id = ?
	           ORDER BY r.store_id DESC, r.reserved_at DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OwnerReservationView, 0)
	for rows.Next() {
		var v OwnerReservationView
		var at time.Time
		if err := rows.Scan(&v.ID, &v.StoreID, &v.StoreName, &at, &v.Contact, &v.State, &v.Visited); err != nil {
			return nil, err
		}
		v.ReservedAt = utils.FormatReserveTime(at)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Decide sets a reservation to ACCEPTED or REJECTED on behalf of the store
// owner.  The reservation row is locked for the read-check-write.  A
// canceled reservation can never be decided again; any other current state
// is overwritten unconditionally, so re-deciding an already ACCEPTED or
// REJECTED reservation is allowed.
func (r *ReservationRepo) Decide(ctx context.Context, ownerID, reservationID uint64, state string) (dec *Decision, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	const q = `SELECT r.store_id, r.account_id, r.reserved_at, r.contact, r.state, s.owner_id, s.name
	           FROM reservations r
	           JOIN stores s ON s.id = r.store_id
	           WHERE r.id = ? FOR UPDATE`
	var (
		storeID, accountID, dbOwnerID uint64
		reservedAt                    time.Time
		contact, current, storeName   string
	)
	err = tx.QueryRowContext(ctx, q, reservationID).Scan(
		&storeID, &accountID, &reservedAt, &contact, &current, &dbOwnerID, &storeName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ReservationDoesNotExist
	}
	if err != nil {
		return nil, err
	}
	if dbOwnerID != ownerID {
		return nil, apperr.ReservationStoreOwnerUnmatch
	}
	if current == model.StateCanceled {
		return nil, apperr.ReservationCanceled
	}

	if _, err = tx.ExecContext(ctx,
		"UPDATE reservations SET state = ?, updated_at = NOW() WHERE id = ?",
		state, reservationID); err != nil {
		return nil, err
	}
	return &Decision{
		View: ReservationView{
			ID:         reservationID,
			StoreName:  storeName,
			ReservedAt: utils.FormatReserveTime(reservedAt),
			State:      state,
		},
		StoreID:    storeID,
		AccountID:  accountID,
		ReservedAt: reservedAt,
		Contact:    contact,
	}, nil
}

// Cancel sets a reservation to CANCELED on behalf of the reserving
// account.  Cancellation is unconditional: PENDING and ACCEPTED (and even
// already CANCELED or REJECTED) reservations all end up CANCELED.
func (r *ReservationRepo) Cancel(ctx context.Context, accountID, reservationID uint64) (view *ReservationView, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	const q = `SELECT r.account_id, r.reserved_at, s.name
	           FROM reservations r
	           JOIN stores s ON s.id = r.store_id
	           WHERE r.id = ? FOR UPDATE`
	var (
		dbAccountID uint64
		reservedAt  time.Time
		storeName   string
	)
	err = tx.QueryRowContext(ctx, q, reservationID).Scan(&dbAccountID, &reservedAt, &storeName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ReservationDoesNotExist
	}
	if err != nil {
		return nil, err
	}
	if dbAccountID != accountID {
		return nil, apperr.ReservationOwnerUnmatch
	}

	if _, err = tx.ExecContext(ctx,
		"UPDATE reservations SET state = ?, updated_at = NOW() WHERE id = ?",
		model.StateCanceled, reservationID); err != nil {
		return nil, err
	}
	return &ReservationView{
		ID:         reservationID,
		StoreName:  storeName,
		ReservedAt: utils.FormatReserveTime(reservedAt),
		State:      model.StateCanceled,
	}, nil
}

// GetForAccount returns a single reservation for the reserving account.
// Read-only; the same not-found and ownership errors as Cancel apply.
func (r *ReservationRepo) GetForAccount(ctx context.Context, accountID, reservationID uint64) (*ReservationView, error) {
	const q = `SELECT r.account_id, r.reserved_at, r.state, s.name
	           FROM reservations r
	           JOIN stores s ON s.id = r.store_id
	           WHERE r.id = ?`
	var (
		dbAccountID uint64
		reservedAt  time.Time
		state       string
		storeName   string
	)
	err := r.db.QueryRowContext(ctx, q, reservationID).Scan(&dbAccountID, &reservedAt, &state, &storeName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ReservationDoesNotExist
	}
	if err != nil {
		return nil, err
	}
	if dbAccountID != accountID {
		return nil, apperr.ReservationOwnerUnmatch
	}
	return &ReservationView{
		ID:         reservationID,
		StoreName:  storeName,
		ReservedAt: utils.FormatReserveTime(reservedAt),
		State:      state,
	}, nil
}

// WriteReview writes or overwrites the review on a visited reservation.
// Checks run in the same order the operation is specified: existence,
// ownership, visit, then the star range.  The range check is repeated here
// even though the column also constrains it.
func (r *ReservationRepo) WriteReview(ctx context.Context, accountID, reservationID uint64, stars int, review string) (rv *ReviewView, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	const q = `SELECT r.account_id, r.visited, s.name
	           FROM reservations r
	           JOIN stores s ON s.id = r.store_id
	           WHERE r.id = ? FOR UPDATE`
	var (
		dbAccountID uint64
		visited     bool
		storeName   string
	)
	err = tx.QueryRowContext(ctx, q, reservationID).Scan(&dbAccountID, &visited, &storeName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ReservationDoesNotExist
	}
	if err != nil {
		return nil, err
	}
	if dbAccountID != accountID {
		return nil, apperr.ReservationOwnerUnmatch
	}
	if !visited {
		return nil, apperr.UnvisitedReservation
	}
	if stars < 1 || stars > 5 {
		return nil, apperr.StarsMustBetween1To5
	}

	if _, err = tx.ExecContext(ctx,
		"UPDATE reservations SET stars = ?, review = ?, updated_at = NOW() WHERE id = ?",
		stars, review, reservationID); err != nil {
		return nil, err
	}
	return &ReviewView{StoreName: storeName, Stars: uint8(stars), Review: review}, nil
}

// ConfirmArrival performs the kiosk check-in.  The reservation is matched
// by the exact (store, time, contact) triple, must be ACCEPTED, and the
// check-in must happen no later than cutoff before the reservation time.
// On success visited flips to true; on any failure it is left untouched.
// The whole check runs inside one transaction with the row locked so a
// concurrent cancellation cannot interleave.
func (r *ReservationRepo) ConfirmArrival(ctx context.Context, storeID uint64, reservedAt time.Time, contact string, now time.Time, cutoff time.Duration) (av *ArrivalView, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var storeName string
	err = tx.QueryRowContext(ctx, "SELECT name FROM stores WHERE id = ?", storeID).Scan(&storeName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.StoreDoesNotExist
	}
	if err != nil {
		return nil, err
	}

	var (
		reservationID uint64
		state         string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, state FROM reservations
		 WHERE store_id = ? AND reserved_at = ? AND contact = ? FOR UPDATE`,
		storeID, reservedAt, contact).Scan(&reservationID, &state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ReservationDoesNotExist
	}
	if err != nil {
		return nil, err
	}
	if state != model.StateAccepted {
		return nil, apperr.UnacceptedReservation
	}
	if now.After(reservedAt.Add(-cutoff)) {
		return nil, apperr.LateArrival
	}

	if _, err = tx.ExecContext(ctx,
		"UPDATE reservations SET visited = 1, updated_at = NOW() WHERE id = ?",
		reservationID); err != nil {
		return nil, err
	}
	return &ArrivalView{
		StoreName:  storeName,
		ReservedAt: utils.FormatReserveTime(reservedAt),
		Visited:    true,
	}, nil
}
