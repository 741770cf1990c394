// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a store owner accepts a
// reservation.  It contains enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary database.
type ReservationConfirmedEvent struct {
    ReservationID uint64 `json:"reservation_id"`
    StoreID       uint64 `json:"store_id"`
    StoreName     string `json:"store_name"`
    AccountID     uint64 `json:"account_id"`
    ReservedAt    string `json:"reserved_at"`
    Contact       string `json:"contact"`
    ConfirmedAt   string `json:"confirmed_at"`
}
