package lifecycle

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/lifecycle/models"
)

// normalizeVehicle обрезает пробелы и приводит номер к верхнему регистру
func normalizeVehicle(vehicle string) string {
	return strings.ToUpper(strings.TrimSpace(vehicle))
}

// validateCheckIn валидирует и нормализует запрос на въезд.
// Существование слота здесь не проверяется: неизвестный ID отклоняет хранилище.
func validateCheckIn(req *models.CheckInRequest) (vehicle, phone string, err error) {
	vehicle = normalizeVehicle(req.Vehicle)
	if vehicle == "" {
		return "", "", fmt.Errorf("%w: %w", ErrValidation, ErrVehicleRequired)
	}
	if utf8.RuneCountInString(vehicle) > domain.MaxVehicleLength {
		return "", "", fmt.Errorf("%w: %w: vehicle exceeds %d characters",
			ErrValidation, ErrFieldTooLong, domain.MaxVehicleLength)
	}

	phone = strings.TrimSpace(req.Phone)
	if utf8.RuneCountInString(phone) > domain.MaxPhoneLength {
		return "", "", fmt.Errorf("%w: %w: phone exceeds %d characters",
			ErrValidation, ErrFieldTooLong, domain.MaxPhoneLength)
	}

	return vehicle, phone, nil
}
