// internal/models/seat.go
package models

// Seat identifies one of the two match participants.
type Seat string

const (
	SeatHost Seat = "host"
	SeatAway Seat = "away"
)

// Opposite returns the other seat.
func (s Seat) Opposite() Seat {
	if s == SeatHost {
		return SeatAway
	}
	return SeatHost
}

// Valid reports whether s is one of the two known seats.
func (s Seat) Valid() bool {
	return s == SeatHost || s == SeatAway
}
