package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeBookingRepo struct {
	unpaid      []int64
	findErr     error
	cutoffSeen  time.Time
	cancelled   []int64
	reasonSeen  string
	cancelCalls int
}

func (r *fakeBookingRepo) GetPendingUnpaidBefore(_ context.Context, deadline time.Time) ([]int64, error) {
	r.cutoffSeen = deadline
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.unpaid, nil
}

func (r *fakeBookingRepo) CancelBatch(_ context.Context, ids []int64, reason string) (int64, error) {
	r.cancelCalls++
	r.cancelled = ids
	r.reasonSeen = reason
	return int64(len(ids)), nil
}

type fakeTime struct {
	now time.Time
}

func (f *fakeTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestExpireUnpaid_CancelsOverdue(t *testing.T) {
	repo := &fakeBookingRepo{unpaid: []int64{3, 5}}
	now := time.Date(2025, 10, 2, 12, 0, 0, 0, time.UTC)

	job := NewExpireUnpaidJob(repo, nopLogger{}, 24*time.Hour)
	job.timeProvider = &fakeTime{now: now}

	job.Run(context.Background())

	assert.Equal(t, now.Add(-24*time.Hour), repo.cutoffSeen)
	assert.Equal(t, []int64{3, 5}, repo.cancelled)
	assert.Equal(t, expireReason, repo.reasonSeen)
}

func TestExpireUnpaid_NothingToCancel(t *testing.T) {
	repo := &fakeBookingRepo{}
	job := NewExpireUnpaidJob(repo, nopLogger{}, 24*time.Hour)

	job.Run(context.Background())

	assert.Zero(t, repo.cancelCalls)
}

func TestExpireUnpaid_FindErrorSkipsCancel(t *testing.T) {
	repo := &fakeBookingRepo{findErr: errors.New("db down")}
	job := NewExpireUnpaidJob(repo, nopLogger{}, 24*time.Hour)

	job.Run(context.Background())

	assert.Zero(t, repo.cancelCalls)
}
