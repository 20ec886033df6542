package get_slot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/lifecycle"
	"github.com/m04kA/SMC-ParkingService/internal/service/lifecycle/models"
)

const (
	msgInvalidCardID = "Invalid Card ID"
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

// Handle GET /api/slots/{cardId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cardIDStr := vars["cardId"]

	// Нечисловой ID означает несуществующую карту
	cardID, err := domain.ParseSlotID(cardIDStr)
	if err != nil {
		h.logger.Warn("GET /slots/{id} - Invalid card ID: %v", err)
		handlers.RespondNotFound(w, msgInvalidCardID)
		return
	}

	slot, err := h.service.Get(r.Context(), cardID)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrSlotNotFound):
			h.logger.Warn("GET /slots/{id} - Slot not found: card_id=%d", cardID)
			handlers.RespondNotFound(w, msgInvalidCardID)

		default:
			h.logger.Error("GET /slots/{id} - Failed to get slot: card_id=%d, error=%v", cardID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots/{id} - Slot retrieved successfully: card_id=%d, status=%s", cardID, slot.Status)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainSlot(slot))
}
