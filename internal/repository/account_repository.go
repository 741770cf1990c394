package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/store-reservation/internal/apperr"
	"github.com/iliyamo/store-reservation/internal/model"
	"github.com/iliyamo/store-reservation/internal/utils"
)

type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

const accountCols = "id,email,password_hash,role,is_active,created_at,updated_at"

// Create inserts an account and returns its ID.  Emails are normalized to
// lowercase before hashing and insertion.
func (r *AccountRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if password == "" {
		return 0, apperr.PasswordCannotBeNull
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO accounts (email, password_hash, role) VALUES (?,?,?)",
		email, hash, role)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, apperr.EmailAlreadyRegistered
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches an account by normalized email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var a model.Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE email=? LIMIT 1",
		email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return a, apperr.AccountDoesNotExist
	}
	return a, err
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	var a model.Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE id=? LIMIT 1",
		id).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return a, apperr.AccountDoesNotExist
	}
	return a, err
}

// Deactivate soft-deletes an account.  The row is never removed; is_active
// flips to false and subsequent sign-ins fail.  Deactivation is blocked
// while dependent resources exist: an owner must first delete every store,
// a user must not have any reservations on record.  The guard and the
// update run in one transaction with the account row locked so a store or
// reservation created concurrently cannot slip past the check.
func (r *AccountRepo) Deactivate(ctx context.Context, accountID uint64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
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

	var role string
	err = tx.QueryRowContext(ctx,
		"SELECT role FROM accounts WHERE id=? FOR UPDATE", accountID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.AccountDoesNotExist
	}
	if err != nil {
		return err
	}

	var n int64
	switch role {
	case model.RoleOwner:
		if err = tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM stores WHERE owner_id=?", accountID).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return apperr.RegisteredStoreExists
		}
	default:
		if err = tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM reservations WHERE account_id=?", accountID).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return apperr.AccountReservationExists
		}
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE accounts SET is_active=0, updated_at=NOW() WHERE id=?", accountID)
	return err
}
