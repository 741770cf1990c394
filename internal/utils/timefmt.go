package utils

import (
    "errors"
    "time"
)

// ReserveLayout is the wire format for reservation date‑times.  Reservations
// have minute precision; seconds are never transmitted or stored.
const ReserveLayout = "2006-01-02 15:04"

// ErrBadReserveTime is returned when a reservation time string does not
// match ReserveLayout.
var ErrBadReserveTime = errors.New("reservation time must be formatted as yyyy-MM-dd HH:mm")

// ParseReserveTime parses a wire-format reservation time in the given zone
// and truncates it to minute precision.
func ParseReserveTime(s string, loc *time.Location) (time.Time, error) {
    t, err := time.ParseInLocation(ReserveLayout, s, loc)
    if err != nil {
        return time.Time{}, ErrBadReserveTime
    }
    return t.Truncate(time.Minute), nil
}

// FormatReserveTime renders a reservation time in the wire format.
func FormatReserveTime(t time.Time) string {
    return t.Format(ReserveLayout)
}
