package get_availability

import "time"

// Request модель запроса занятости пакета на диапазон дат
type Request struct {
	PackageID int64
	From      time.Time // Начало диапазона (включительно)
	To        time.Time // Конец диапазона (включительно)
}

// DayAvailability занятость одного календарного дня
type DayAvailability struct {
	Date      string // YYYY-MM-DD
	Used      int    // Сколько активных бронирований покрывает день
	Remaining int    // Сколько мест осталось
}

// Response модель ответа с занятостью по дням
type Response struct {
	PackageID     int64
	PackageActive bool
	Capacity      int
	Days          []DayAvailability

	// Available true, когда на каждый день диапазона осталось
	// хотя бы одно место и пакет доступен для бронирования
	Available bool
}
