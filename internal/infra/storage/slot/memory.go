package slot

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type entry struct {
	mu   sync.Mutex
	slot domain.Slot
}

// MemoryStore хранит слоты в памяти процесса.
// Набор ID фиксируется при создании, поэтому карта только читается и общий лок не нужен;
// каждая запись защищена своим мьютексом.
type MemoryStore struct {
	entries map[domain.SlotID]*entry
	ids     []domain.SlotID
}

// NewMemoryStore создает хранилище с начальным набором слотов
func NewMemoryStore(slots []domain.Slot) (*MemoryStore, error) {
	s := &MemoryStore{
		entries: make(map[domain.SlotID]*entry, len(slots)),
		ids:     make([]domain.SlotID, 0, len(slots)),
	}

	for _, sl := range slots {
		if err := sl.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
		}
		if _, ok := s.entries[sl.ID]; ok {
			return nil, fmt.Errorf("%w: id=%d", ErrDuplicateSlot, sl.ID)
		}
		s.entries[sl.ID] = &entry{slot: sl}
		s.ids = append(s.ids, sl.ID)
	}

	sort.Slice(s.ids, func(i, j int) bool { return s.ids[i] < s.ids[j] })

	return s, nil
}

// GetAll возвращает снимок всех слотов по возрастанию ID
func (s *MemoryStore) GetAll(_ context.Context) ([]domain.Slot, error) {
	slots := make([]domain.Slot, 0, len(s.ids))
	for _, id := range s.ids {
		e := s.entries[id]
		e.mu.Lock()
		slots = append(slots, e.slot)
		e.mu.Unlock()
	}
	return slots, nil
}

// Get возвращает слот по ID
func (s *MemoryStore) Get(_ context.Context, id domain.SlotID) (domain.Slot, error) {
	e, ok := s.entries[id]
	if !ok {
		return domain.Slot{}, fmt.Errorf("%w: id=%d", ErrSlotNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slot, nil
}

// Apply атомарно применяет мутацию к слоту: чтение, проверка и запись идут под мьютексом слота
func (s *MemoryStore) Apply(_ context.Context, id domain.SlotID, mutate Mutation) (domain.Slot, error) {
	e, ok := s.entries[id]
	if !ok {
		return domain.Slot{}, fmt.Errorf("%w: id=%d", ErrSlotNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := mutate(e.slot)
	if err != nil {
		return domain.Slot{}, err
	}

	if next.ID != id {
		return domain.Slot{}, fmt.Errorf("%w: mutation changed id %d -> %d", ErrInvalidSlot, id, next.ID)
	}
	if err := next.Validate(); err != nil {
		return domain.Slot{}, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}

	e.slot = next
	return next, nil
}
