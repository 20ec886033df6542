package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotID identifies a physical parking position
type SlotID int64

func (id SlotID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseSlotID parses a decimal slot id. Surrounding spaces are ignored.
func ParseSlotID(s string) (SlotID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid slot id %q: %w", s, err)
	}
	return SlotID(v), nil
}

// SlotStatus represents the occupancy status of a slot
type SlotStatus string

const (
	StatusEmpty    SlotStatus = "empty"
	StatusOccupied SlotStatus = "occupied"
)

// Slot represents one physical parking position.
// Vehicle, Phone and EntryTime are set together on check-in and cleared together on check-out;
// the zero value of each field means "absent".
type Slot struct {
	ID        SlotID
	Status    SlotStatus
	Vehicle   string
	Phone     string
	EntryTime time.Time
}

// NewEmptySlot returns a slot in its initial state
func NewEmptySlot(id SlotID) Slot {
	return Slot{ID: id, Status: StatusEmpty}
}

// IsOccupied returns true if a vehicle is parked in the slot
func (s Slot) IsOccupied() bool {
	return s.Status == StatusOccupied
}

// IsEmpty returns true if the slot is free
func (s Slot) IsEmpty() bool {
	return s.Status == StatusEmpty
}

// Occupy returns a copy of the slot checked in with the given occupant
func (s Slot) Occupy(vehicle, phone string, at time.Time) Slot {
	return Slot{
		ID:        s.ID,
		Status:    StatusOccupied,
		Vehicle:   vehicle,
		Phone:     phone,
		EntryTime: at,
	}
}

// Release returns a copy of the slot reset to the empty state
func (s Slot) Release() Slot {
	return NewEmptySlot(s.ID)
}

// Validate checks the occupancy invariant of the slot
func (s Slot) Validate() error {
	if s.ID <= 0 {
		return fmt.Errorf("%w: slot id must be positive, got %d", ErrInvalidSlot, s.ID)
	}

	switch s.Status {
	case StatusEmpty:
		if s.Vehicle != "" || s.Phone != "" || !s.EntryTime.IsZero() {
			return fmt.Errorf("%w: empty slot %d carries occupant data", ErrInvalidSlot, s.ID)
		}
	case StatusOccupied:
		if s.Vehicle == "" {
			return fmt.Errorf("%w: occupied slot %d has no vehicle", ErrInvalidSlot, s.ID)
		}
		if s.EntryTime.IsZero() {
			return fmt.Errorf("%w: occupied slot %d has no entry time", ErrInvalidSlot, s.ID)
		}
	default:
		return fmt.Errorf("%w: unknown status %q of slot %d", ErrInvalidSlot, s.Status, s.ID)
	}

	return nil
}

// ParseSlotStatus converts a stored status string into SlotStatus
func ParseSlotStatus(status string) (SlotStatus, error) {
	switch s := SlotStatus(status); s {
	case StatusEmpty, StatusOccupied:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidSlot, status)
	}
}
