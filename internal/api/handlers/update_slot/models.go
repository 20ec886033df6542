package update_slot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/lifecycle/models"
)

const (
	ActionCheckIn  = "checkin"
	ActionCheckOut = "checkout"
)

var errInvalidCardID = errors.New("invalid card id")

// CardID ID карты из запроса. Клиенты присылают его и числом, и строкой,
// поэтому значение хранится как есть и разбирается в ToSlotID.
type CardID struct {
	raw string
}

// UnmarshalJSON принимает JSON число, строку или null
func (c *CardID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		c.raw = ""
		return nil

	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		c.raw = s
		return nil

	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("cardId must be a number or a string: %w", err)
		}
		c.raw = n.String()
		return nil
	}
}

// ToSlotID возвращает ID слота; отсутствующий, нечисловой или неположительный ID считается неизвестным
func (c CardID) ToSlotID() (domain.SlotID, error) {
	if c.raw == "" {
		return 0, fmt.Errorf("%w: missing", errInvalidCardID)
	}

	id, err := domain.ParseSlotID(c.raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errInvalidCardID, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: %d", errInvalidCardID, id)
	}

	return id, nil
}

func (c CardID) String() string {
	return c.raw
}

// UpdateRequest HTTP request model
type UpdateRequest struct {
	CardID  CardID `json:"cardId"`
	Action  string `json:"action"`
	Vehicle string `json:"vehicle"`
	Phone   string `json:"phone"`
}

// CheckInResponse HTTP response model для въезда
type CheckInResponse struct {
	Message string              `json:"message"`
	Data    models.SlotResponse `json:"data"`
}

// CheckOutResponse HTTP response model для выезда
type CheckOutResponse struct {
	Message string                      `json:"message"`
	Data    models.CheckoutSlotResponse `json:"data"`
	Receipt models.ReceiptResponse      `json:"receipt"`
}

// FromCheckIn конвертирует результат въезда в HTTP response
func FromCheckIn(slot *domain.Slot) *CheckInResponse {
	return &CheckInResponse{
		Message: msgSuccess,
		Data:    models.FromDomainSlot(*slot),
	}
}

// FromCheckOut конвертирует результат выезда в HTTP response
func FromCheckOut(result *domain.CheckoutResult) *CheckOutResponse {
	data, receipt := models.FromDomainCheckout(result)
	return &CheckOutResponse{
		Message: msgSuccess,
		Data:    data,
		Receipt: receipt,
	}
}
