package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Scheduler обёртка над cron-планировщиком для фоновых задач сервиса
type Scheduler struct {
	cron   *cron.Cron
	logger Logger
}

// NewScheduler создает планировщик фоновых задач
func NewScheduler(logger Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// RegisterExpireUnpaid регистрирует задачу отмены неоплаченных
// бронирований по стандартному cron-расписанию
func (s *Scheduler) RegisterExpireUnpaid(schedule string, job *ExpireUnpaidJob) error {
	_, err := s.cron.AddFunc(schedule, func() {
		job.Run(context.Background())
	})
	if err != nil {
		return fmt.Errorf("jobs: failed to register expire-unpaid job: %w", err)
	}

	s.logger.Info("Scheduler: registered expire-unpaid job with schedule %q", schedule)
	return nil
}

// Start запускает планировщик в отдельной горутине
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик и дожидается завершения текущих задач
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
