package pricing

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// HolidaySet набор праздничных дат. Загружается один раз из конфигурации
// и не меняется в течение работы сервиса.
type HolidaySet map[string]struct{}

// NewHolidaySet создает набор праздников из списка дат в формате YYYY-MM-DD
func NewHolidaySet(dates []string) (HolidaySet, error) {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		if _, err := time.Parse(domain.DateFormat, d); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHoliday, d)
		}
		set[d] = struct{}{}
	}
	return set, nil
}

// Contains возвращает true, если дата является праздником
func (h HolidaySet) Contains(date time.Time) bool {
	_, ok := h[date.Format(domain.DateFormat)]
	return ok
}
