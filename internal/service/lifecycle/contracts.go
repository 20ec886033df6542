package lifecycle

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/slot"
)

// SlotStore интерфейс хранилища слотов (память или PostgreSQL)
type SlotStore interface {
	GetAll(ctx context.Context) ([]domain.Slot, error)
	Get(ctx context.Context, id domain.SlotID) (domain.Slot, error)
	Apply(ctx context.Context, id domain.SlotID, mutate slotRepo.Mutation) (domain.Slot, error)
}

// Recorder получатель событий переходов (метрики)
type Recorder interface {
	RecordCheckIn()
	RecordCheckOut(durationMinutes, fee int64)
	RecordRejected(action, reason string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// IDGenerator генератор идентификаторов квитанций
type IDGenerator interface {
	NewID() string
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время в UTC
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// NopRecorder ничего не записывает, используется при выключенных метриках
type NopRecorder struct{}

func (NopRecorder) RecordCheckIn()                {}
func (NopRecorder) RecordCheckOut(int64, int64)   {}
func (NopRecorder) RecordRejected(string, string) {}
