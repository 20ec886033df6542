package update_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/lifecycle"
	"github.com/m04kA/SMC-ParkingService/internal/service/lifecycle/models"
)

const (
	msgSuccess            = "Success"
	msgInvalidRequestBody = "Invalid Request Body"
	msgInvalidCardID      = "Invalid Card ID"
	msgInvalidAction      = "Invalid Action"
	msgVehicleRequired    = "Vehicle Is Required"
	msgFieldTooLong       = "Vehicle Or Phone Is Too Long"
	msgInvalidData        = "Invalid Data"
	msgSlotOccupied       = "Slot Already Occupied"
	msgSlotEmpty          = "Slot Already Empty"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/update
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /update - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	cardID, err := req.CardID.ToSlotID()
	if err != nil {
		h.logger.Warn("POST /update - Invalid card ID %q: %v", req.CardID.String(), err)
		handlers.RespondNotFound(w, msgInvalidCardID)
		return
	}

	// Неизвестная карта отклоняется раньше действия и полей запроса
	if _, err := h.service.Get(r.Context(), cardID); err != nil {
		h.respondServiceError(w, req.Action, cardID, err)
		return
	}

	switch req.Action {
	case ActionCheckIn:
		h.checkIn(w, r, cardID, &req)
	case ActionCheckOut:
		h.checkOut(w, r, cardID)
	default:
		h.logger.Warn("POST /update - Invalid action: card_id=%d, action=%q", cardID, req.Action)
		handlers.RespondBadRequest(w, msgInvalidAction)
	}
}

func (h *Handler) checkIn(w http.ResponseWriter, r *http.Request, cardID domain.SlotID, req *UpdateRequest) {
	slot, err := h.service.CheckIn(r.Context(), &models.CheckInRequest{
		SlotID:  cardID,
		Vehicle: req.Vehicle,
		Phone:   req.Phone,
	})
	if err != nil {
		h.respondServiceError(w, ActionCheckIn, cardID, err)
		return
	}

	h.logger.Info("POST /update - Check-in completed: card_id=%d, vehicle=%s", cardID, slot.Vehicle)
	handlers.RespondJSON(w, http.StatusOK, FromCheckIn(slot))
}

func (h *Handler) checkOut(w http.ResponseWriter, r *http.Request, cardID domain.SlotID) {
	result, err := h.service.CheckOut(r.Context(), &models.CheckOutRequest{SlotID: cardID})
	if err != nil {
		h.respondServiceError(w, ActionCheckOut, cardID, err)
		return
	}

	h.logger.Info("POST /update - Check-out completed: card_id=%d, duration=%dm, fee=%d",
		cardID, result.Receipt.DurationMinutes, result.Receipt.Fee)
	handlers.RespondJSON(w, http.StatusOK, FromCheckOut(result))
}

// respondServiceError переводит ошибку сервиса в HTTP ответ
func (h *Handler) respondServiceError(w http.ResponseWriter, action string, cardID domain.SlotID, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrSlotNotFound):
		h.logger.Warn("POST /update - Slot not found: card_id=%d, action=%s", cardID, action)
		handlers.RespondNotFound(w, msgInvalidCardID)

	case errors.Is(err, lifecycle.ErrVehicleRequired):
		h.logger.Warn("POST /update - Vehicle is required: card_id=%d", cardID)
		handlers.RespondBadRequest(w, msgVehicleRequired)

	case errors.Is(err, lifecycle.ErrFieldTooLong):
		h.logger.Warn("POST /update - Field too long: card_id=%d, error=%v", cardID, err)
		handlers.RespondBadRequest(w, msgFieldTooLong)

	case errors.Is(err, lifecycle.ErrValidation):
		h.logger.Warn("POST /update - Validation failed: card_id=%d, error=%v", cardID, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	case errors.Is(err, lifecycle.ErrSlotOccupied):
		h.logger.Warn("POST /update - Slot already occupied: card_id=%d", cardID)
		handlers.RespondConflict(w, msgSlotOccupied)

	case errors.Is(err, lifecycle.ErrSlotEmpty):
		h.logger.Warn("POST /update - Slot already empty: card_id=%d", cardID)
		handlers.RespondConflict(w, msgSlotEmpty)

	default:
		h.logger.Error("POST /update - Failed to %s: card_id=%d, error=%v", action, cardID, err)
		handlers.RespondInternalError(w)
	}
}
