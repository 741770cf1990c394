package model

import "time"

// Reservation states.  A reservation starts PENDING and moves to ACCEPTED
// or REJECTED by the store owner, or to CANCELED by the requester.  There
// is no transition out of CANCELED.
const (
    StatePending  = "PENDING"
    StateAccepted = "ACCEPTED"
    StateRejected = "REJECTED"
    StateCanceled = "CANCELED"
)

// Reservation records a customer's booking at a store for an exact
// minute-precision date‑time.  At most one reservation may exist per
// (account, store, reserved_at) triple.  The visited flag is set only by
// the kiosk check-in; stars and review are written after a visit and may
// be overwritten in place.
//
// Fields:
//  ID         – primary key identifier.
//  StoreID    – store being reserved.
//  AccountID  – account that requested the reservation.
//  ReservedAt – reservation date‑time, minute precision, app timezone.
//  Contact    – contact string the kiosk matches on arrival.
//  State      – PENDING, ACCEPTED, REJECTED or CANCELED.
//  Visited    – whether the customer checked in at the kiosk.
//  Stars      – star rating 1..5, zero while unreviewed.
//  Review     – free-text review, empty while unreviewed.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Reservation struct {
    ID         uint64    // reservations.id
    StoreID    uint64    // reservations.store_id
    AccountID  uint64    // reservations.account_id
    ReservedAt time.Time // reservations.reserved_at
    Contact    string    // reservations.contact
    State      string    // reservations.state
    Visited    bool      // reservations.visited
    Stars      uint8     // reservations.stars (0 = unreviewed)
    Review     string    // reservations.review
    CreatedAt  time.Time // reservations.created_at
    UpdatedAt  time.Time // reservations.updated_at
}
