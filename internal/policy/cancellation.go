package policy

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// PenaltyBucket штрафная ступень отмены: применяется, когда до получения
// остаётся не более MaxLeadDays дней
type PenaltyBucket struct {
	MaxLeadDays float64
	Rate        float64
}

// DefaultPenaltyBuckets ступени штрафа по умолчанию:
// >7 дней — 0%, (3;7] — 15%, (1;3] — 30%, <=1 дня — 50%
func DefaultPenaltyBuckets() []PenaltyBucket {
	return []PenaltyBucket{
		{MaxLeadDays: 1, Rate: 0.50},
		{MaxLeadDays: 3, Rate: 0.30},
		{MaxLeadDays: 7, Rate: 0.15},
	}
}

// CancellationPolicy политика изменения и отмены бронирований.
// Все пороги задаются конфигурацией.
type CancellationPolicy struct {
	// editCutoff минимальное время до получения, в течение которого
	// редактирование уже запрещено
	editCutoff time.Duration
	buckets    []PenaltyBucket
}

// NewCancellationPolicy создает политику с заданным порогом редактирования
// и ступенями штрафа. Ступени сортируются по возрастанию порога.
func NewCancellationPolicy(editCutoff time.Duration, buckets []PenaltyBucket) *CancellationPolicy {
	sorted := make([]PenaltyBucket, len(buckets))
	copy(sorted, buckets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MaxLeadDays < sorted[j].MaxLeadDays
	})
	return &CancellationPolicy{editCutoff: editCutoff, buckets: sorted}
}

// Decision результат проверки допустимости операции
type Decision struct {
	Allowed bool
	Reason  string
}

// CanModify возвращает, может ли клиент редактировать бронирование.
// Запрещено в терминальном статусе и после порога editCutoff до получения.
func (p *CancellationPolicy) CanModify(b *domain.Booking, now time.Time) Decision {
	if b.IsTerminal() {
		return Decision{Allowed: false, Reason: "booking is in a terminal state"}
	}
	// Единственное сравнение с порогом: правку можно сделать строго
	// раньше, чем (момент получения - editCutoff)
	if !now.Before(b.PickupAt().Add(-p.editCutoff)) {
		return Decision{Allowed: false, Reason: "too close to pickup time"}
	}
	return Decision{Allowed: true}
}

// CanCancel возвращает, может ли клиент отменить бронирование.
// Отмена возможна до момента получения включительно в последний день.
func (p *CancellationPolicy) CanCancel(b *domain.Booking, now time.Time) Decision {
	if b.IsTerminal() {
		return Decision{Allowed: false, Reason: "booking is in a terminal state"}
	}
	if !b.CanBeCancelled() {
		return Decision{Allowed: false, Reason: "booking cannot be cancelled"}
	}
	if !now.Before(b.PickupAt()) {
		return Decision{Allowed: false, Reason: "pickup time has passed"}
	}
	return Decision{Allowed: true}
}

// PenaltyRate возвращает ставку штрафа за отмену в зависимости от того,
// сколько времени осталось до получения. Ступени не перекрываются:
// берётся первая (наименьшая), чей порог покрывает остаток времени.
// Если остаток больше всех порогов, штраф нулевой.
func (p *CancellationPolicy) PenaltyRate(pickupAt, now time.Time) float64 {
	lead := pickupAt.Sub(now)

	for _, bucket := range p.buckets {
		if lead <= time.Duration(bucket.MaxLeadDays*24*float64(time.Hour)) {
			return bucket.Rate
		}
	}
	return 0
}
