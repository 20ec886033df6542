package models

import (
	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request модели

// CheckInRequest запрос на въезд автомобиля
type CheckInRequest struct {
	SlotID  domain.SlotID `json:"cardId"`
	Vehicle string        `json:"vehicle"`
	Phone   string        `json:"phone"`
}

// CheckOutRequest запрос на выезд автомобиля
type CheckOutRequest struct {
	SlotID domain.SlotID `json:"cardId"`
}

// Response модели

// SlotResponse состояние слота на проводе. Для пустого слота vehicle, phone и entryTime равны null.
type SlotResponse struct {
	ID        int64   `json:"id"`
	Status    string  `json:"status"`
	Vehicle   *string `json:"vehicle"`
	Phone     *string `json:"phone"`
	EntryTime *string `json:"entryTime"` // ISO 8601
}

// CheckoutSlotResponse состояние слота после выезда вместе с рассчитанной платой
type CheckoutSlotResponse struct {
	SlotResponse
	DurationMinutes int64 `json:"durationMinutes"`
	Fee             int64 `json:"fee"`
}

// ReceiptResponse квитанция о завершённой стоянке
type ReceiptResponse struct {
	ID              string `json:"id"`
	SlotID          int64  `json:"slotId"`
	Vehicle         string `json:"vehicle"`
	Phone           string `json:"phone"`
	EntryTime       string `json:"entryTime"`
	ExitTime        string `json:"exitTime"`
	DurationMinutes int64  `json:"durationMinutes"`
	Fee             int64  `json:"fee"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s domain.Slot) SlotResponse {
	resp := SlotResponse{
		ID:     int64(s.ID),
		Status: string(s.Status),
	}

	if s.IsOccupied() {
		vehicle := s.Vehicle
		phone := s.Phone
		entryTime := s.EntryTime.UTC().Format(domain.TimeFormat)
		resp.Vehicle = &vehicle
		resp.Phone = &phone
		resp.EntryTime = &entryTime
	}

	return resp
}

// FromDomainSlotList конвертирует список слотов в карту "id" -> слот
func FromDomainSlotList(slots []domain.Slot) map[string]SlotResponse {
	resp := make(map[string]SlotResponse, len(slots))
	for _, s := range slots {
		resp[s.ID.String()] = FromDomainSlot(s)
	}
	return resp
}

// FromDomainCheckout конвертирует результат выезда в DTO
func FromDomainCheckout(result *domain.CheckoutResult) (CheckoutSlotResponse, ReceiptResponse) {
	r := result.Receipt

	slot := CheckoutSlotResponse{
		SlotResponse:    FromDomainSlot(result.Slot),
		DurationMinutes: r.DurationMinutes,
		Fee:             r.Fee,
	}

	receipt := ReceiptResponse{
		ID:              r.ID,
		SlotID:          int64(r.SlotID),
		Vehicle:         r.Vehicle,
		Phone:           r.Phone,
		EntryTime:       r.EntryTime.UTC().Format(domain.TimeFormat),
		ExitTime:        r.ExitTime.UTC().Format(domain.TimeFormat),
		DurationMinutes: r.DurationMinutes,
		Fee:             r.Fee,
	}

	return slot, receipt
}
