package get_status

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type SlotService interface {
	List(ctx context.Context) ([]domain.Slot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
