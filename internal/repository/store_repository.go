// This file defines repository methods for store CRUD.  A Store is a venue
// registered by an owner account; the (name, address) pair is globally
// unique and enforced by a composite unique index, so duplicate inserts are
// detected from the key violation rather than a prior existence query.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/store-reservation/internal/apperr"
	"github.com/iliyamo/store-reservation/internal/model"
)

// StoreRepo encapsulates all database queries related to stores.  It
// depends on a sql.DB connection which should be configured elsewhere.
type StoreRepo struct {
	db *sql.DB
}

// NewStoreRepo constructs a StoreRepo with the provided DB handle.  This
// function allows dependency injection of the database in tests and at
// startup.
func NewStoreRepo(db *sql.DB) *StoreRepo {
	return &StoreRepo{db: db}
}

// Create inserts a new store owned by ownerID.  On success the returned
// store carries the auto-generated ID and DB-populated timestamps.  A
// (name, address) collision maps to StoreAlreadyAdded.
func (r *StoreRepo) Create(ctx context.Context, ownerID uint64, name, address, description string) (*model.Store, error) {
	const qInsert = "INSERT INTO stores (owner_id, name, address, description) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, ownerID, name, address, description)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, apperr.StoreAlreadyAdded
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a store by its ID regardless of owner.
func (r *StoreRepo) GetByID(ctx context.Context, id uint64) (*model.Store, error) {
	const q = "SELECT id, owner_id, name, address, description, created_at, updated_at FROM stores WHERE id = ?"
	var s model.Store
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.Address, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.StoreDoesNotExist
		}
		return nil, err
	}
	return &s, nil
}

// ListByOwner returns all stores for a specific owner ordered by id.
func (r *StoreRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Store, error) {
	const q = `SELECT id, owner_id, name, address, description, created_at, updated_at
	           FROM stores WHERE owner_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Store
	for rows.Next() {
		s := new(model.Store)
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Address, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the store's name, address and description provided the
// caller owns it.  The ownership read and the write run in one transaction
// with the row locked.  A rename that collides with another store's
// (name, address) pair maps to StoreAlreadyAdded.
func (r *StoreRepo) Update(ctx context.Context, ownerID, storeID uint64, name, address, description string) (st *model.Store, err error) {
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

	if err = r.checkOwnerTx(ctx, tx, storeID, ownerID); err != nil {
		return nil, err
	}
	const q = `UPDATE stores SET name = ?, address = ?, description = ?, updated_at = NOW() WHERE id = ?`
	if _, err = tx.ExecContext(ctx, q, name, address, description, storeID); err != nil {
		if isDuplicateKey(err) {
			err = apperr.StoreAlreadyAdded
		}
		return nil, err
	}
	st = &model.Store{}
	err = tx.QueryRowContext(ctx,
		"SELECT id, owner_id, name, address, description, created_at, updated_at FROM stores WHERE id = ?",
		storeID).Scan(&st.ID, &st.OwnerID, &st.Name, &st.Address, &st.Description, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Delete removes a store provided the caller owns it.  Deletion is
// unconditional with respect to reservations: existing reservation rows
// keep their store_id and simply dangle.  They drop out of owner listings
// (which join on stores) but still count toward the account deactivation
// guard.
func (r *StoreRepo) Delete(ctx context.Context, ownerID, storeID uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if err = r.checkOwnerTx(ctx, tx, storeID, ownerID); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM stores WHERE id = ?", storeID)
	return err
}

// checkOwnerTx locks the store row and verifies ownership.
func (r *StoreRepo) checkOwnerTx(ctx context.Context, tx *sql.Tx, storeID, ownerID uint64) error {
	var dbOwnerID uint64
	err := tx.QueryRowContext(ctx, "SELECT owner_id FROM stores WHERE id = ? FOR UPDATE", storeID).Scan(&dbOwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.StoreDoesNotExist
	}
	if err != nil {
		return err
	}
	if dbOwnerID != ownerID {
		return apperr.StoreOwnerUnmatch
	}
	return nil
}
