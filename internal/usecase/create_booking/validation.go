package create_booking

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// validateRequest валидирует запрос целиком, собирая все некорректные
// поля за один проход
func validateRequest(req *Request, now time.Time) error {
	var fields []FieldError

	if req.CustomerID <= 0 {
		fields = append(fields, FieldError{Field: "customerId", Message: "must be positive"})
	}
	if req.PackageID <= 0 {
		fields = append(fields, FieldError{Field: "packageId", Message: "must be positive"})
	}

	if req.PickupDate.IsZero() {
		fields = append(fields, FieldError{Field: "pickupDate", Message: "is required"})
	}
	if req.ReturnDate.IsZero() {
		fields = append(fields, FieldError{Field: "returnDate", Message: "is required"})
	}

	if !req.PickupDate.IsZero() && !req.ReturnDate.IsZero() {
		fields = append(fields, validateDateRange(req, now)...)
	}

	fields = append(fields, validateTimes(req)...)

	if strings.TrimSpace(req.Location) == "" {
		fields = append(fields, FieldError{Field: "location", Message: "must not be empty"})
	} else if len(req.Location) > domain.MaxLocationLength {
		fields = append(fields, FieldError{Field: "location", Message: "is too long"})
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		fields = append(fields, FieldError{Field: "notes", Message: "is too long"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validateDateRange(req *Request, now time.Time) []FieldError {
	var fields []FieldError

	if domain.DateOnly(req.ReturnDate).Before(domain.DateOnly(req.PickupDate)) {
		fields = append(fields, FieldError{Field: "returnDate", Message: "must not be before pickupDate"})
		return fields
	}

	// Дата получения в прошлом — ошибка валидации, а не вопрос занятости
	if domain.DateOnly(req.PickupDate).Before(domain.DateOnly(now)) {
		fields = append(fields, FieldError{Field: "pickupDate", Message: "must not be in the past"})
	}

	if domain.RentalDaysBetween(req.PickupDate, req.ReturnDate) > domain.MaxRentalDays {
		fields = append(fields, FieldError{Field: "returnDate", Message: "rental period is too long"})
	}

	return fields
}

func validateTimes(req *Request) []FieldError {
	var fields []FieldError

	pickupOK := true
	returnOK := true

	if req.PickupTime.IsZero() {
		fields = append(fields, FieldError{Field: "pickupTime", Message: "is required"})
		pickupOK = false
	} else if err := req.PickupTime.Validate(); err != nil {
		fields = append(fields, FieldError{Field: "pickupTime", Message: "must be in HH:MM format"})
		pickupOK = false
	}

	if req.ReturnTime.IsZero() {
		fields = append(fields, FieldError{Field: "returnTime", Message: "is required"})
		returnOK = false
	} else if err := req.ReturnTime.Validate(); err != nil {
		fields = append(fields, FieldError{Field: "returnTime", Message: "must be in HH:MM format"})
		returnOK = false
	}

	// На однодневном бронировании получение должно быть раньше возврата
	if pickupOK && returnOK &&
		!req.PickupDate.IsZero() && !req.ReturnDate.IsZero() &&
		domain.DateOnly(req.PickupDate).Equal(domain.DateOnly(req.ReturnDate)) &&
		!req.PickupTime.IsBefore(req.ReturnTime) {
		fields = append(fields, FieldError{Field: "returnTime", Message: "must be after pickupTime on a single-day booking"})
	}

	return fields
}

// usagePerDay считает занятость по каждому календарному дню диапазона
// [from, to]: сколько активных бронирований покрывает этот день
func usagePerDay(from, to time.Time, bookings []*domain.Booking) map[string]int {
	usage := make(map[string]int)

	for d := domain.DateOnly(from); !d.After(domain.DateOnly(to)); d = d.AddDate(0, 0, 1) {
		key := d.Format(domain.DateFormat)
		for _, b := range bookings {
			if b.IsActive() && b.OverlapsDay(d) {
				usage[key]++
			}
		}
	}

	return usage
}

// firstFullDay возвращает первый день диапазона, занятость которого
// уже достигла capacity, или пустую строку, если все дни свободны.
// Сравнение строгое: usage == capacity-1 всё ещё допускает бронирование.
func firstFullDay(usage map[string]int, from, to time.Time, capacity int) string {
	for d := domain.DateOnly(from); !d.After(domain.DateOnly(to)); d = d.AddDate(0, 0, 1) {
		key := d.Format(domain.DateFormat)
		if usage[key] >= capacity {
			return key
		}
	}
	return ""
}
