package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestComputeBreakdown_SingleWeekday(t *testing.T) {
	calc := NewCalculator(DefaultRates(), nil)

	// Среда 2025-10-01: только базовая цена
	bd, err := calc.ComputeBreakdown(1000, date("2025-10-01"), date("2025-10-01"))
	require.NoError(t, err)

	assert.Equal(t, 1, bd.RentalDays)
	assert.Equal(t, 1000.0, bd.BaseDay)
	assert.Equal(t, 0.0, bd.Day2Surcharge)
	assert.Equal(t, 0.0, bd.Day36Surcharge)
	assert.Equal(t, 0.0, bd.Day7PlusSurcharge)
	assert.Equal(t, 0.0, bd.WeekendHolidaySurcharge)
	assert.Equal(t, 1000.0, bd.Subtotal)
}

func TestComputeBreakdown_FridayToSaturday(t *testing.T) {
	calc := NewCalculator(DefaultRates(), nil)

	// Пятница 2025-10-03 - суббота 2025-10-04:
	// база 1000 + день 2 (400) + один выходной день (100)
	bd, err := calc.ComputeBreakdown(1000, date("2025-10-03"), date("2025-10-04"))
	require.NoError(t, err)

	assert.Equal(t, 2, bd.RentalDays)
	assert.Equal(t, 1000.0, bd.BaseDay)
	assert.Equal(t, 400.0, bd.Day2Surcharge)
	assert.Equal(t, 0.0, bd.Day36Surcharge)
	assert.Equal(t, 0.0, bd.Day7PlusSurcharge)
	assert.Equal(t, 100.0, bd.WeekendHolidaySurcharge)
	assert.Equal(t, 1500.0, bd.Subtotal)
}

func TestComputeBreakdown_SevenDays(t *testing.T) {
	calc := NewCalculator(DefaultRates(), nil)

	// Понедельник 2025-10-06 - воскресенье 2025-10-12: 7 дней,
	// выходные 11 и 12 октября
	bd, err := calc.ComputeBreakdown(1000, date("2025-10-06"), date("2025-10-12"))
	require.NoError(t, err)

	assert.Equal(t, 7, bd.RentalDays)
	assert.Equal(t, 1000.0, bd.BaseDay)
	assert.Equal(t, 400.0, bd.Day2Surcharge)
	// Дни 3-6: 4 дня по 20%
	assert.Equal(t, 800.0, bd.Day36Surcharge)
	// День 7: один день по 10%
	assert.Equal(t, 100.0, bd.Day7PlusSurcharge)
	assert.Equal(t, 200.0, bd.WeekendHolidaySurcharge)
	assert.Equal(t, 2500.0, bd.Subtotal)
}

func TestComputeBreakdown_Day36CappedAtFourDays(t *testing.T) {
	calc := NewCalculator(DefaultRates(), nil)

	// 10 дней: надбавка за дни 3-6 не превышает 4 дней
	bd, err := calc.ComputeBreakdown(1000, date("2025-10-06"), date("2025-10-15"))
	require.NoError(t, err)

	assert.Equal(t, 10, bd.RentalDays)
	assert.Equal(t, 800.0, bd.Day36Surcharge)
	// Дни 7-10: 4 дня по 10%
	assert.Equal(t, 400.0, bd.Day7PlusSurcharge)
}

func TestComputeBreakdown_HolidayOnWeekday(t *testing.T) {
	holidays, err := NewHolidaySet([]string{"2025-10-23"})
	require.NoError(t, err)
	calc := NewCalculator(DefaultRates(), holidays)

	// Четверг 2025-10-23 объявлен праздником
	bd, err := calc.ComputeBreakdown(1000, date("2025-10-23"), date("2025-10-23"))
	require.NoError(t, err)

	assert.Equal(t, 100.0, bd.WeekendHolidaySurcharge)
	assert.Equal(t, 1100.0, bd.Subtotal)
}

func TestComputeBreakdown_HolidayOnWeekendCountedOnce(t *testing.T) {
	holidays, err := NewHolidaySet([]string{"2025-10-04"})
	require.NoError(t, err)
	calc := NewCalculator(DefaultRates(), holidays)

	// Суббота, одновременно праздник: надбавка начисляется один раз
	bd, err := calc.ComputeBreakdown(1000, date("2025-10-04"), date("2025-10-04"))
	require.NoError(t, err)

	assert.Equal(t, 100.0, bd.WeekendHolidaySurcharge)
	assert.Equal(t, 1100.0, bd.Subtotal)
}

func TestComputeBreakdown_InvalidRange(t *testing.T) {
	calc := NewCalculator(DefaultRates(), nil)

	_, err := calc.ComputeBreakdown(1000, date("2025-10-05"), date("2025-10-04"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestComputeBreakdown_InvalidPrice(t *testing.T) {
	calc := NewCalculator(DefaultRates(), nil)

	_, err := calc.ComputeBreakdown(0, date("2025-10-03"), date("2025-10-04"))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = calc.ComputeBreakdown(-50, date("2025-10-03"), date("2025-10-04"))
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestComputeBreakdown_Rounding(t *testing.T) {
	calc := NewCalculator(DefaultRates(), nil)

	bd, err := calc.ComputeBreakdown(333.33, date("2025-10-01"), date("2025-10-02"))
	require.NoError(t, err)

	assert.Equal(t, 133.33, bd.Day2Surcharge)
	assert.Equal(t, 466.66, bd.Subtotal)
}

func TestTotalWithVAT(t *testing.T) {
	assert.Equal(t, 1605.0, TotalWithVAT(1500, 0.07))
	assert.Equal(t, 1500.0, TotalWithVAT(1500, 0))
}

func TestDepositAmount(t *testing.T) {
	assert.Equal(t, 802.5, DepositAmount(1605, 0.50))
}

func TestNewHolidaySet_InvalidDate(t *testing.T) {
	_, err := NewHolidaySet([]string{"2025-10-04", "not-a-date"})
	assert.ErrorIs(t, err, ErrInvalidHoliday)
}
