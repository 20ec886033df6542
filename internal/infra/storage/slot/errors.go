package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слота с таким ID нет
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrInvalidSlot возвращается при попытке сохранить слот, нарушающий инвариант
	ErrInvalidSlot = errors.New("slot.repository: invalid slot")

	// ErrDuplicateSlot возвращается при повторном ID в начальном наборе слотов
	ErrDuplicateSlot = errors.New("slot.repository: duplicate slot id")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
