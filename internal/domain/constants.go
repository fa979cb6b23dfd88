package domain

// Default configuration values
const (
	DefaultMaxConcurrentReservations = 1
	DefaultDepositPercent            = 0.50
	DefaultVATRate                   = 0.07

	DefaultDay2Rate           = 0.40
	DefaultDay36Rate          = 0.20
	DefaultDay7PlusRate       = 0.10
	DefaultWeekendHolidayRate = 0.10
)

// Business validation constants
const (
	MinConcurrentReservations = 1
	MaxRentalDays             = 90
	MaxLocationLength         = 255
	MaxNotesLength            = 500
	MaxCancellationReasonLen  = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, учитываемые при подсчёте занятости пакета
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []BookingStatus{
	StatusCancelled,
	StatusCompleted,
}
