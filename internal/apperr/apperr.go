// Package apperr defines the client-facing error taxonomy.  Every domain
// failure maps to a stable code plus a human-readable message, serialized
// directly to the caller.  Repositories and handlers return these values so
// higher layers can translate them without string matching; anything that is
// not an *Error surfaces as a generic internal error instead.
package apperr

import (
    "errors"
    "net/http"
)

// Error is a client-facing application error.  Code is stable and machine
// readable, Message is for humans, Status is the HTTP status the error maps
// to.  Status is not serialized.
type Error struct {
    Code    string `json:"error_code"`
    Message string `json:"error_message"`
    Status  int    `json:"-"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

// As unwraps err into an *Error if possible.
func As(err error) (*Error, bool) {
    var ae *Error
    if errors.As(err, &ae) {
        return ae, true
    }
    return nil, false
}

func newErr(status int, code, msg string) *Error {
    return &Error{Code: code, Message: msg, Status: status}
}

// Account errors.
var (
    EmailAlreadyRegistered  = newErr(http.StatusConflict, "EMAIL_ALREADY_REGISTERED", "the email address is already registered")
    PasswordCannotBeNull    = newErr(http.StatusBadRequest, "PASSWORD_CANNOT_BE_NULL", "password must be at least one character")
    AccountDoesNotExist     = newErr(http.StatusNotFound, "ACCOUNT_DOES_NOT_EXIST", "no account exists for that email")
    PasswordIsIncorrect     = newErr(http.StatusUnauthorized, "PASSWORD_IS_INCORRECT", "password does not match")
    UnactivatedAccount      = newErr(http.StatusUnauthorized, "UNACTIVATED_ACCOUNT", "the account has been deactivated")
    RegisteredStoreExists   = newErr(http.StatusConflict, "REGISTERED_STORE_EXISTS", "stores registered under this account still exist")
    AccountReservationExists = newErr(http.StatusConflict, "ACCOUNT_RESERVATION_EXISTS", "reservations made by this account still exist")
)

// Store errors.
var (
    StoreAlreadyAdded = newErr(http.StatusConflict, "STORE_ALREADY_ADDED", "a store with the same name and address already exists")
    StoreDoesNotExist = newErr(http.StatusNotFound, "STORE_DOES_NOT_EXIST", "no such store")
    StoreOwnerUnmatch = newErr(http.StatusForbidden, "STORE_OWNER_UNMATCH", "only the store owner may modify the store")
)

// Reservation errors.
var (
    ReservationDoesNotExist      = newErr(http.StatusNotFound, "RESERVATION_DOES_NOT_EXIST", "no such reservation")
    DuplicatedReservation        = newErr(http.StatusConflict, "DUPLICATED_RESERVATION", "a reservation for the same store and time already exists")
    ReservationOwnerUnmatch      = newErr(http.StatusForbidden, "RESERVATION_OWNER_UNMATCH", "only the reserving account may access this reservation")
    ReservationStoreOwnerUnmatch = newErr(http.StatusForbidden, "RESERVATION_STORE_OWNER_UNMATCH", "only the store owner may confirm or reject this reservation")
    ReservationCanceled          = newErr(http.StatusConflict, "RESERVATION_CANCELED", "a canceled reservation cannot be confirmed or rejected")
    UnvisitedReservation         = newErr(http.StatusConflict, "UNVISITED_RESERVATION", "reviews require a completed visit")
    StarsMustBetween1To5         = newErr(http.StatusBadRequest, "STARS_MUST_BETWEEN_1_TO_5", "stars must be between 1 and 5")
)

// Kiosk errors.
var (
    UnacceptedReservation = newErr(http.StatusConflict, "UNACCEPTED_RESERVATION", "the reservation has not been accepted")
    LateArrival           = newErr(http.StatusConflict, "LATE_ARRIVAL", "check-in closed; arrival must be before the cutoff ahead of the reservation time")
)
