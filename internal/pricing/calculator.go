package pricing

import (
	"math"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Rates ставки надбавок к базовой дневной цене.
// Задаются конфигурацией, в алгоритме не зашиты.
type Rates struct {
	Day2           float64 // надбавка за второй день (доля от базовой цены)
	Day36          float64 // надбавка за каждый из дней 3-6
	Day7Plus       float64 // надбавка за каждый день с 7-го
	WeekendHoliday float64 // надбавка за каждый выходной/праздничный день
}

// DefaultRates возвращает ставки по умолчанию
func DefaultRates() Rates {
	return Rates{
		Day2:           domain.DefaultDay2Rate,
		Day36:          domain.DefaultDay36Rate,
		Day7Plus:       domain.DefaultDay7PlusRate,
		WeekendHoliday: domain.DefaultWeekendHolidayRate,
	}
}

// Calculator чистый калькулятор стоимости аренды.
// Не делает I/O и детерминирован относительно входных данных
// и снимка праздничного календаря.
type Calculator struct {
	rates    Rates
	holidays HolidaySet
}

// NewCalculator создает калькулятор с заданными ставками и праздниками
func NewCalculator(rates Rates, holidays HolidaySet) *Calculator {
	return &Calculator{rates: rates, holidays: holidays}
}

// ComputeBreakdown вычисляет разбивку стоимости аренды за период
// [pickupDate, returnDate] включительно.
//
// Составляющие:
//   - базовая цена за первый день, всегда;
//   - надбавка за день 2, единоразово;
//   - надбавка за каждый из дней 3-6;
//   - надбавка за каждый день с 7-го;
//   - надбавка за каждый день диапазона, приходящийся на субботу,
//     воскресенье или праздник (включая первый день; выходной и праздник
//     в один день не суммируются).
func (c *Calculator) ComputeBreakdown(basePrice float64, pickupDate, returnDate time.Time) (domain.PriceBreakdown, error) {
	if basePrice <= 0 {
		return domain.PriceBreakdown{}, ErrInvalidPrice
	}
	if domain.DateOnly(returnDate).Before(domain.DateOnly(pickupDate)) {
		return domain.PriceBreakdown{}, ErrInvalidRange
	}

	days := domain.RentalDaysBetween(pickupDate, returnDate)

	bd := domain.PriceBreakdown{
		RentalDays: days,
		BaseDay:    basePrice,
	}

	if days >= 2 {
		bd.Day2Surcharge = round2(basePrice * c.rates.Day2)
	}

	// Дни 3-6: максимум 4 дня
	if days >= 3 {
		qualifying := days - 2
		if qualifying > 4 {
			qualifying = 4
		}
		bd.Day36Surcharge = round2(float64(qualifying) * basePrice * c.rates.Day36)
	}

	if days >= 7 {
		bd.Day7PlusSurcharge = round2(float64(days-6) * basePrice * c.rates.Day7Plus)
	}

	weekendHolidayDays := 0
	for d := domain.DateOnly(pickupDate); !d.After(domain.DateOnly(returnDate)); d = d.AddDate(0, 0, 1) {
		if c.isSurchargeDay(d) {
			weekendHolidayDays++
		}
	}
	bd.WeekendHolidaySurcharge = round2(float64(weekendHolidayDays) * basePrice * c.rates.WeekendHoliday)

	bd.Subtotal = round2(bd.BaseDay + bd.Day2Surcharge + bd.Day36Surcharge + bd.Day7PlusSurcharge + bd.WeekendHolidaySurcharge)

	return bd, nil
}

// TotalWithVAT возвращает итоговую цену: subtotal с начисленным VAT
func TotalWithVAT(subtotal, vatRate float64) float64 {
	return round2(subtotal * (1 + vatRate))
}

// DepositAmount возвращает размер депозита от итоговой цены
func DepositAmount(totalPrice, depositPercent float64) float64 {
	return round2(totalPrice * depositPercent)
}

// isSurchargeDay возвращает true для субботы, воскресенья или праздника.
// День, являющийся одновременно выходным и праздником, считается один раз.
func (c *Calculator) isSurchargeDay(d time.Time) bool {
	if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		return true
	}
	return c.holidays.Contains(d)
}

// round2 округляет до двух знаков после запятой
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
