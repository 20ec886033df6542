package domain

import "time"

// Receipt describes a finished parking session
type Receipt struct {
	ID              string
	SlotID          SlotID
	Vehicle         string
	Phone           string
	EntryTime       time.Time
	ExitTime        time.Time
	DurationMinutes int64
	Fee             int64
}

// CheckoutResult is returned by a successful checkout: the reset slot and the receipt
// of the session that just ended
type CheckoutResult struct {
	Slot    Slot
	Receipt Receipt
}
