package services

import (
	"errors"
	"time"
)

// Kebijakan booking
const (
	// HoldWindow adalah durasi tamu diharapkan datang setelah booking dibuat
	HoldWindow = 15 * time.Minute

	// CapacitySlack: meja dianggap terlalu besar jika sisa kursi >= nilai ini
	CapacitySlack = 3

	// SweepInterval adalah jarak antar jalan-nya expiry sweeper
	SweepInterval = 10 * time.Minute
)

var (
	ErrPartySizeInvalid = errors.New("party size must be a positive number")
	ErrPartyTooLarge    = errors.New("party too large for this table")
	ErrTableTooLarge    = errors.New("table too large for this party")
)

// EvaluateParty memvalidasi party size terhadap kapasitas meja.
// Rejection bersifat advisory: caller diharapkan meminta user memilih ulang,
// bukan memperlakukannya sebagai hard error.
func EvaluateParty(capacity, partySize int) error {
	if partySize <= 0 {
		return ErrPartySizeInvalid
	}
	if partySize > capacity {
		return ErrPartyTooLarge
	}
	if capacity-partySize >= CapacitySlack {
		return ErrTableTooLarge
	}
	return nil
}
