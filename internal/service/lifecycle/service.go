package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ParkingService/internal/service/lifecycle/models"
)

// Причины отклонения переходов для метрик
const (
	reasonNotFound          = "not_found"
	reasonValidation        = "validation"
	reasonInvalidTransition = "invalid_transition"
	reasonInternal          = "internal"
)

const (
	actionCheckIn  = "checkin"
	actionCheckOut = "checkout"
)

type uuidGenerator struct{}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

// Service машина состояний слота: въезд (EMPTY -> OCCUPIED) и выезд (OCCUPIED -> EMPTY) с расчётом платы
type Service struct {
	store        SlotStore
	fees         domain.FeePolicy
	recorder     Recorder
	timeProvider TimeProvider
	idGenerator  IDGenerator
	logger       Logger
}

// NewService создает новый экземпляр сервиса. recorder может быть nil.
func NewService(
	store SlotStore,
	fees domain.FeePolicy,
	recorder Recorder,
	logger Logger,
) *Service {
	if recorder == nil {
		recorder = NopRecorder{}
	}

	return &Service{
		store:        store,
		fees:         fees,
		recorder:     recorder,
		timeProvider: &RealTimeProvider{},
		idGenerator:  uuidGenerator{},
		logger:       logger,
	}
}

// List возвращает снимок всех слотов по возрастанию ID
func (s *Service) List(ctx context.Context) ([]domain.Slot, error) {
	slots, err := s.store.GetAll(ctx)
	if err != nil {
		s.logger.Error("List: store error: %v", err)
		return nil, fmt.Errorf("%w: List - store error: %v", ErrInternal, err)
	}
	return slots, nil
}

// Get возвращает слот по ID
func (s *Service) Get(ctx context.Context, id domain.SlotID) (domain.Slot, error) {
	slot, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("Get: slot id=%d not found", id)
			return domain.Slot{}, fmt.Errorf("%w: id=%d", ErrSlotNotFound, id)
		}
		s.logger.Error("Get: store error for slot id=%d: %v", id, err)
		return domain.Slot{}, fmt.Errorf("%w: Get - store error: %v", ErrInternal, err)
	}

	return slot, nil
}

// CheckIn регистрирует въезд автомобиля на пустой слот.
// Повторный въезд на занятый слот отклоняется, данные текущего автомобиля не меняются.
func (s *Service) CheckIn(ctx context.Context, req *models.CheckInRequest) (*domain.Slot, error) {
	s.logger.Info("CheckIn: slot=%d, vehicle=%q", req.SlotID, req.Vehicle)

	// 1. Валидация и нормализация входных данных
	vehicle, phone, err := validateCheckIn(req)
	if err != nil {
		s.logger.Warn("CheckIn: validation failed for slot=%d: %v", req.SlotID, err)
		s.recorder.RecordRejected(actionCheckIn, reasonValidation)
		return nil, err
	}

	// 2. Время въезда фиксируется один раз
	now := s.timeProvider.Now().UTC()

	// 3. Проверка состояния и запись выполняются атомарно под блокировкой слота
	updated, err := s.store.Apply(ctx, req.SlotID, func(current domain.Slot) (domain.Slot, error) {
		if current.IsOccupied() {
			return domain.Slot{}, fmt.Errorf("%w: %w: slot=%d, vehicle=%s",
				ErrInvalidTransition, ErrSlotOccupied, current.ID, current.Vehicle)
		}
		return current.Occupy(vehicle, phone, now), nil
	})
	if err != nil {
		return nil, s.transitionError(actionCheckIn, req.SlotID, err)
	}

	s.recorder.RecordCheckIn()
	s.logger.Info("CheckIn: slot=%d occupied by vehicle=%s at %s",
		updated.ID, updated.Vehicle, updated.EntryTime.Format(domain.TimeFormat))

	return &updated, nil
}

// CheckOut регистрирует выезд: считает длительность и плату и сбрасывает слот в пустое состояние.
// Время выезда берётся один раз, поэтому длительность и плата согласованы между собой.
func (s *Service) CheckOut(ctx context.Context, req *models.CheckOutRequest) (*domain.CheckoutResult, error) {
	s.logger.Info("CheckOut: slot=%d", req.SlotID)

	now := s.timeProvider.Now().UTC()

	var receipt domain.Receipt
	updated, err := s.store.Apply(ctx, req.SlotID, func(current domain.Slot) (domain.Slot, error) {
		if !current.IsOccupied() {
			return domain.Slot{}, fmt.Errorf("%w: %w: slot=%d", ErrInvalidTransition, ErrSlotEmpty, current.ID)
		}

		// Время въезда читается под блокировкой и стирается этой же мутацией
		charge := s.fees.Compute(current.EntryTime, now)
		receipt = domain.Receipt{
			SlotID:          current.ID,
			Vehicle:         current.Vehicle,
			Phone:           current.Phone,
			EntryTime:       current.EntryTime,
			ExitTime:        now,
			DurationMinutes: charge.DurationMinutes,
			Fee:             charge.Fee,
		}

		return current.Release(), nil
	})
	if err != nil {
		return nil, s.transitionError(actionCheckOut, req.SlotID, err)
	}

	receipt.ID = s.idGenerator.NewID()

	s.recorder.RecordCheckOut(receipt.DurationMinutes, receipt.Fee)
	s.logger.Info("CheckOut: slot=%d released, vehicle=%s, duration=%dm, fee=%d, receipt=%s",
		updated.ID, receipt.Vehicle, receipt.DurationMinutes, receipt.Fee, receipt.ID)

	return &domain.CheckoutResult{
		Slot:    updated,
		Receipt: receipt,
	}, nil
}

// transitionError переводит ошибку хранилища или мутации в ошибку сервиса
func (s *Service) transitionError(action string, id domain.SlotID, err error) error {
	switch {
	case errors.Is(err, ErrInvalidTransition):
		s.logger.Warn("%s: rejected: %v", action, err)
		s.recorder.RecordRejected(action, reasonInvalidTransition)
		return err

	case errors.Is(err, slotRepo.ErrSlotNotFound):
		s.logger.Warn("%s: slot id=%d not found", action, id)
		s.recorder.RecordRejected(action, reasonNotFound)
		return fmt.Errorf("%w: id=%d", ErrSlotNotFound, id)

	default:
		s.logger.Error("%s: store error for slot id=%d: %v", action, id, err)
		s.recorder.RecordRejected(action, reasonInternal)
		return fmt.Errorf("%w: %s - store error: %v", ErrInternal, action, err)
	}
}
