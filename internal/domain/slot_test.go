package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlot_OccupyRelease(t *testing.T) {
	at := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

	slot := NewEmptySlot(2)
	require.NoError(t, slot.Validate())
	assert.True(t, slot.IsEmpty())

	occupied := slot.Occupy("KA-01-AB-1234", "", at)
	require.NoError(t, occupied.Validate())
	assert.True(t, occupied.IsOccupied())
	assert.Equal(t, SlotID(2), occupied.ID)
	assert.Equal(t, "KA-01-AB-1234", occupied.Vehicle)
	assert.Empty(t, occupied.Phone)
	assert.Equal(t, at, occupied.EntryTime)

	released := occupied.Release()
	require.NoError(t, released.Validate())
	assert.Equal(t, slot, released)

	// исходное значение не изменилось
	assert.True(t, slot.IsEmpty())
}

func TestSlot_Validate(t *testing.T) {
	at := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		slot    Slot
		wantErr bool
	}{
		{name: "empty", slot: NewEmptySlot(1)},
		{name: "occupied without phone", slot: Slot{ID: 1, Status: StatusOccupied, Vehicle: "A1", EntryTime: at}},
		{name: "non-positive id", slot: NewEmptySlot(0), wantErr: true},
		{name: "empty with vehicle", slot: Slot{ID: 1, Status: StatusEmpty, Vehicle: "A1"}, wantErr: true},
		{name: "empty with phone", slot: Slot{ID: 1, Status: StatusEmpty, Phone: "123"}, wantErr: true},
		{name: "empty with entry time", slot: Slot{ID: 1, Status: StatusEmpty, EntryTime: at}, wantErr: true},
		{name: "occupied without vehicle", slot: Slot{ID: 1, Status: StatusOccupied, EntryTime: at}, wantErr: true},
		{name: "occupied without entry time", slot: Slot{ID: 1, Status: StatusOccupied, Vehicle: "A1"}, wantErr: true},
		{name: "unknown status", slot: Slot{ID: 1, Status: "pending"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.slot.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSlot)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseSlotStatus(t *testing.T) {
	s, err := ParseSlotStatus("occupied")
	require.NoError(t, err)
	assert.Equal(t, StatusOccupied, s)

	_, err = ParseSlotStatus("None")
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestParseSlotID(t *testing.T) {
	id, err := ParseSlotID(" 2 ")
	require.NoError(t, err)
	assert.Equal(t, SlotID(2), id)
	assert.Equal(t, "2", id.String())

	_, err = ParseSlotID("two")
	assert.Error(t, err)
}
