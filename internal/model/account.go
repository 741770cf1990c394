package model

import "time"

// Account roles.  Every account is either a store owner or a customer;
// capability checks are performed explicitly at each operation boundary
// rather than through separate account kinds.
const (
    RoleOwner = "OWNER"
    RoleUser  = "USER"
)

// Account represents an application account record as stored in the
// `accounts` table.  Each field corresponds to a column in the database.
// The json tags are omitted here because these structs are primarily used
// internally by the repository layer; handlers define separate response
// types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the account.
//  Email        – unique email address, stored lowercased.
//  PasswordHash – bcrypt hashed password.
//  Role         – OWNER or USER.
//  IsActive     – whether the account is active.  Withdrawal is a soft
//                 delete: the row stays, IsActive flips to false and
//                 sign-in is refused from then on.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Account struct {
    ID           uint64    // accounts.id
    Email        string    // accounts.email
    PasswordHash string    // accounts.password_hash
    Role         string    // accounts.role
    IsActive     bool      // accounts.is_active
    CreatedAt    time.Time // accounts.created_at
    UpdatedAt    time.Time // accounts.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to an account and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA‑256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  AccountID – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    AccountID uint64     // refresh_tokens.account_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
