package lifecycle

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слота с таким ID нет
	ErrSlotNotFound = errors.New("lifecycle: slot not found")

	// ErrValidation возвращается при некорректных или отсутствующих полях запроса
	ErrValidation = errors.New("lifecycle: validation failed")

	// ErrInvalidTransition возвращается при переходе из неподходящего состояния
	ErrInvalidTransition = errors.New("lifecycle: invalid transition")

	// ErrSlotOccupied уточняет ErrInvalidTransition: въезд на занятый слот
	ErrSlotOccupied = errors.New("slot is already occupied")

	// ErrSlotEmpty уточняет ErrInvalidTransition: выезд с пустого слота
	ErrSlotEmpty = errors.New("slot is already empty")

	// ErrVehicleRequired уточняет ErrValidation: номер автомобиля не указан
	ErrVehicleRequired = errors.New("vehicle is required")

	// ErrFieldTooLong уточняет ErrValidation: поле длиннее допустимого
	ErrFieldTooLong = errors.New("field is too long")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("lifecycle: internal error")
)
