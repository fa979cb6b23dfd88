package jobs

import (
	"context"
	"time"
)

const expireReason = "automatically cancelled: deposit was not paid in time"

// ExpireUnpaidJob фоновая задача отмены бронирований, по которым депозит
// не был подтверждён за отведённый срок. Отменённые бронирования сразу
// освобождают занятые дни, так как занятость считается по статусу.
type ExpireUnpaidJob struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger

	// deadline сколько времени pending бронирование может ждать оплаты
	deadline time.Duration
}

// NewExpireUnpaidJob создает задачу отмены неоплаченных бронирований
func NewExpireUnpaidJob(bookingRepo BookingRepository, logger Logger, deadline time.Duration) *ExpireUnpaidJob {
	return &ExpireUnpaidJob{
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		deadline:     deadline,
	}
}

// Run выполняет один проход задачи
func (j *ExpireUnpaidJob) Run(ctx context.Context) {
	cutoff := j.timeProvider.Now().Add(-j.deadline)

	ids, err := j.bookingRepo.GetPendingUnpaidBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("ExpireUnpaid: failed to find unpaid bookings: %v", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	j.logger.Info("ExpireUnpaid: cancelling %d unpaid bookings created before %s",
		len(ids), cutoff.Format(time.RFC3339))

	cancelled, err := j.bookingRepo.CancelBatch(ctx, ids, expireReason)
	if err != nil {
		j.logger.Error("ExpireUnpaid: failed to cancel unpaid bookings: %v", err)
		return
	}

	j.logger.Info("ExpireUnpaid: cancelled %d of %d unpaid bookings", cancelled, len(ids))
}
