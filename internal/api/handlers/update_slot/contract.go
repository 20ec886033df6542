package update_slot

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/lifecycle/models"
)

type SlotService interface {
	Get(ctx context.Context, id domain.SlotID) (domain.Slot, error)
	CheckIn(ctx context.Context, req *models.CheckInRequest) (*domain.Slot, error)
	CheckOut(ctx context.Context, req *models.CheckOutRequest) (*domain.CheckoutResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
