package domain

import (
	"errors"
	"time"
)

// Default fee configuration values
const (
	DefaultMinimumFee    = 50
	DefaultRatePerMinute = 1
)

// DefaultSlotIDs набор слотов, если в конфигурации они не заданы
var DefaultSlotIDs = []SlotID{1, 2, 3}

// Business validation constants
const (
	MaxVehicleLength = 32
	MaxPhoneLength   = 20
)

// TimeFormat формат времени въезда на проводе (ISO 8601, UTC)
const TimeFormat = time.RFC3339Nano

// ErrInvalidSlot возвращается, когда слот нарушает инвариант занятости
var ErrInvalidSlot = errors.New("domain: invalid slot")
