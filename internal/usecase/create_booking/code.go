package create_booking

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// codePrefix префикс человекочитаемого кода бронирования
const codePrefix = "RNT"

// maxCodeAttempts максимум попыток подобрать свободный код
const maxCodeAttempts = 5

// newBookingCode генерирует код вида "RNT-3F9A01BC" из случайного UUID
func newBookingCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%s", codePrefix, strings.ToUpper(raw[:8]))
}
