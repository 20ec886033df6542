package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFeePolicy_Compute(t *testing.T) {
	entry := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	policy := DefaultFeePolicy()

	tests := []struct {
		name         string
		elapsed      time.Duration
		wantDuration int64
		wantFee      int64
	}{
		{name: "immediate checkout", elapsed: 0, wantDuration: 0, wantFee: 50},
		{name: "29 seconds rounds down", elapsed: 29 * time.Second, wantDuration: 0, wantFee: 50},
		{name: "30 seconds rounds up", elapsed: 30 * time.Second, wantDuration: 1, wantFee: 50},
		{name: "below minimum", elapsed: 49 * time.Minute, wantDuration: 49, wantFee: 50},
		{name: "at minimum", elapsed: 50 * time.Minute, wantDuration: 50, wantFee: 50},
		{name: "above minimum", elapsed: 2 * time.Hour, wantDuration: 120, wantFee: 120},
		{name: "clock skew", elapsed: -5 * time.Minute, wantDuration: 0, wantFee: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			charge := policy.Compute(entry, entry.Add(tt.elapsed))
			assert.Equal(t, tt.wantDuration, charge.DurationMinutes)
			assert.Equal(t, tt.wantFee, charge.Fee)
		})
	}
}

func TestFeePolicy_Compute_CustomRate(t *testing.T) {
	entry := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	policy := FeePolicy{MinimumFee: 0, RatePerMinute: 3}

	charge := policy.Compute(entry, entry.Add(10*time.Minute))
	assert.Equal(t, Charge{DurationMinutes: 10, Fee: 30}, charge)
}

func TestFeePolicy_Compute_Monotonic(t *testing.T) {
	entry := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	policy := DefaultFeePolicy()

	prev := policy.Compute(entry, entry.Add(-time.Hour))
	for elapsed := -time.Hour; elapsed <= 4*time.Hour; elapsed += 17 * time.Second {
		charge := policy.Compute(entry, entry.Add(elapsed))
		assert.GreaterOrEqual(t, charge.Fee, prev.Fee, "fee decreased at %s", elapsed)
		assert.GreaterOrEqual(t, charge.Fee, policy.MinimumFee)
		prev = charge
	}
}
