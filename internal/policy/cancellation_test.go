package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

func mustDate(s string) time.Time {
	t, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func mustTime(s string) types.TimeString {
	ts, err := types.NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

func TestPenaltyRate_Buckets(t *testing.T) {
	p := NewCancellationPolicy(24*time.Hour, DefaultPenaltyBuckets())
	now := mustDate("2025-10-01")

	tests := []struct {
		name     string
		pickupAt time.Time
		want     float64
	}{
		{
			name:     "more than seven days ahead",
			pickupAt: mustDate("2025-10-10"),
			want:     0,
		},
		{
			name:     "four days ahead",
			pickupAt: mustDate("2025-10-05"),
			want:     0.15,
		},
		{
			name:     "exactly seven days is still fifteen percent",
			pickupAt: mustDate("2025-10-08"),
			want:     0.15,
		},
		{
			name:     "exactly one day ahead",
			pickupAt: mustDate("2025-10-02"),
			want:     0.50,
		},
		{
			name:     "one day and a few hours ahead",
			pickupAt: mustDate("2025-10-02").Add(10 * time.Hour),
			want:     0.30,
		},
		{
			name:     "same day evening pickup",
			pickupAt: mustDate("2025-10-01").Add(18 * time.Hour),
			want:     0.50,
		},
		{
			name:     "two days ahead",
			pickupAt: mustDate("2025-10-03"),
			want:     0.30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.PenaltyRate(tt.pickupAt, now))
		})
	}
}

func TestPenaltyRate_BucketsSortedOnConstruction(t *testing.T) {
	// Ступени переданы в произвольном порядке
	p := NewCancellationPolicy(24*time.Hour, []PenaltyBucket{
		{MaxLeadDays: 7, Rate: 0.15},
		{MaxLeadDays: 1, Rate: 0.50},
		{MaxLeadDays: 3, Rate: 0.30},
	})
	now := mustDate("2025-10-01")

	assert.Equal(t, 0.50, p.PenaltyRate(mustDate("2025-10-02"), now))
	assert.Equal(t, 0.30, p.PenaltyRate(mustDate("2025-10-03"), now))
	assert.Equal(t, 0.15, p.PenaltyRate(mustDate("2025-10-08"), now))
}

func TestCanModify(t *testing.T) {
	p := NewCancellationPolicy(24*time.Hour, DefaultPenaltyBuckets())

	booking := &domain.Booking{
		Status:     domain.StatusConfirmed,
		PickupDate: mustDate("2025-10-05"),
		PickupTime: mustTime("10:00"),
	}

	// За трое суток до получения
	d := p.CanModify(booking, mustDate("2025-10-02"))
	assert.True(t, d.Allowed)

	// Менее суток до получения
	d = p.CanModify(booking, mustDate("2025-10-04").Add(12*time.Hour))
	assert.False(t, d.Allowed)
	assert.Equal(t, "too close to pickup time", d.Reason)

	// Ровно на пороге: правка уже запрещена
	d = p.CanModify(booking, mustDate("2025-10-04").Add(10*time.Hour))
	assert.False(t, d.Allowed)
}

func TestCanModify_TerminalStatus(t *testing.T) {
	p := NewCancellationPolicy(24*time.Hour, DefaultPenaltyBuckets())

	booking := &domain.Booking{
		Status:     domain.StatusCancelled,
		PickupDate: mustDate("2025-12-01"),
	}

	d := p.CanModify(booking, mustDate("2025-10-01"))
	require.False(t, d.Allowed)
	assert.Equal(t, "booking is in a terminal state", d.Reason)
}

func TestCanCancel(t *testing.T) {
	p := NewCancellationPolicy(24*time.Hour, DefaultPenaltyBuckets())

	booking := &domain.Booking{
		Status:     domain.StatusPending,
		PickupDate: mustDate("2025-10-05"),
		PickupTime: mustTime("10:00"),
	}

	// До момента получения отмена разрешена, даже в тот же день
	d := p.CanCancel(booking, mustDate("2025-10-05").Add(9*time.Hour))
	assert.True(t, d.Allowed)

	// В момент получения и позже - нет
	d = p.CanCancel(booking, mustDate("2025-10-05").Add(10*time.Hour))
	assert.False(t, d.Allowed)
	assert.Equal(t, "pickup time has passed", d.Reason)
}

func TestCanCancel_CompletedBooking(t *testing.T) {
	p := NewCancellationPolicy(24*time.Hour, DefaultPenaltyBuckets())

	booking := &domain.Booking{
		Status:     domain.StatusCompleted,
		PickupDate: mustDate("2025-10-05"),
	}

	d := p.CanCancel(booking, mustDate("2025-10-01"))
	assert.False(t, d.Allowed)
	assert.Equal(t, "booking is in a terminal state", d.Reason)
}
