package domain

import "time"

// FeePolicy describes how a parking charge is derived from occupancy duration
type FeePolicy struct {
	MinimumFee    int64
	RatePerMinute int64
}

// DefaultFeePolicy returns the policy with default constants
func DefaultFeePolicy() FeePolicy {
	return FeePolicy{
		MinimumFee:    DefaultMinimumFee,
		RatePerMinute: DefaultRatePerMinute,
	}
}

// Charge is the transient output of a checkout. It is never stored on a Slot.
type Charge struct {
	DurationMinutes int64
	Fee             int64
}

// Compute вычисляет длительность стоянки и плату за неё.
// Длительность округляется до ближайшей минуты, отрицательная (сдвиг часов) считается нулевой.
func (p FeePolicy) Compute(entry, now time.Time) Charge {
	minutes := int64(now.Sub(entry).Round(time.Minute) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}

	fee := minutes * p.RatePerMinute
	if fee < p.MinimumFee {
		fee = p.MinimumFee
	}

	return Charge{
		DurationMinutes: minutes,
		Fee:             fee,
	}
}
