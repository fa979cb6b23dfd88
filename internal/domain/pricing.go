package domain

// PriceBreakdown itemized rental price components.
// Сохраняется вместе с бронированием для аудита; subtotal не включает VAT.
type PriceBreakdown struct {
	RentalDays int

	// BaseDay базовая цена, начисляется один раз за первый день
	BaseDay float64

	//Day2Surcharge надбавка за второй день (единоразовая)
	Day2Surcharge float64

	// Day36Surcharge суммарная надбавка за дни с 3 по 6
	Day36Surcharge float64

	// Day7PlusSurcharge суммарная надбавка за дни с 7 и далее
	Day7PlusSurcharge float64

	// WeekendHolidaySurcharge суммарная надбавка за каждый день диапазона,
	// приходящийся на субботу, воскресенье или праздник
	WeekendHolidaySurcharge float64

	Subtotal float64
}

// DayUsage загрузка пакета на один календарный день
type DayUsage struct {
	Date string // YYYY-MM-DD
	Used int
}
