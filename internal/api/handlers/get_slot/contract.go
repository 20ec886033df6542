package get_slot

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type SlotService interface {
	Get(ctx context.Context, id domain.SlotID) (domain.Slot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
