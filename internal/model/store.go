package model

import "time"

// Store represents a shop that accepts reservations.  A store belongs to
// exactly one owner account and the (name, address) pair is globally
// unique.  Ownership is immutable after creation; only the owning account
// may edit or delete the store.  This struct corresponds to a row in the
// `stores` table.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – account ID of the store owner.
//  Name        – store name (unique together with Address).
//  Address     – store address (unique together with Name).
//  Description – optional free-text description.
//  CreatedAt   – timestamp when the store was registered.
//  UpdatedAt   – timestamp of last update.
type Store struct {
    ID          uint64    // stores.id
    OwnerID     uint64    // stores.owner_id
    Name        string    // stores.name
    Address     string    // stores.address
    Description string    // stores.description
    CreatedAt   time.Time // stores.created_at
    UpdatedAt   time.Time // stores.updated_at
}
