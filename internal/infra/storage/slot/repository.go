package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

const tableSlots = "parking_slots"

var slotColumns = []string{
	"id",
	"status",
	"vehicle",
	"phone",
	"entry_time",
}

// Repository хранилище слотов в PostgreSQL.
// Сериализация переходов по одному слоту обеспечивается блокировкой строки (SELECT ... FOR UPDATE).
// Видны только слоты, переданные в Seed: строки из прежних конфигов в таблице остаются, но не читаются.
type Repository struct {
	db        DBExecutor
	txManager TransactionManager

	// ids набор слотов текущего конфига; заполняется в Seed до начала обслуживания запросов
	ids   []int64
	known map[domain.SlotID]struct{}
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor, txManager TransactionManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

// Seed добавляет начальные слоты и фиксирует набор ID. Уже существующие строки не трогаются,
// поэтому состояние, сохранённое до перезапуска, остаётся.
func (r *Repository) Seed(ctx context.Context, slots []domain.Slot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	known := make(map[domain.SlotID]struct{}, len(slots))
	ids := make([]int64, 0, len(slots))
	for _, sl := range slots {
		if err := sl.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSlot, err)
		}
		if _, ok := known[sl.ID]; ok {
			return fmt.Errorf("%w: id=%d", ErrDuplicateSlot, sl.ID)
		}
		known[sl.ID] = struct{}{}
		ids = append(ids, int64(sl.ID))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, sl := range slots {

		vehicle, phone, entryTime := toNullable(sl)
		query, args, err := psqlbuilder.Insert(tableSlots).
			Columns(slotColumns...).
			Values(int64(sl.ID), string(sl.Status), vehicle, phone, entryTime).
			Suffix("ON CONFLICT (id) DO NOTHING").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Seed - build insert query: %v", ErrBuildQuery, err)
		}

		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: Seed - execute insert for id=%d: %v", ErrExecQuery, sl.ID, err)
		}
	}

	r.ids = ids
	r.known = known
	return nil
}

// GetAll возвращает слоты текущего конфига по возрастанию ID
func (r *Repository) GetAll(ctx context.Context) ([]domain.Slot, error) {
	if len(r.ids) == 0 {
		return []domain.Slot{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From(tableSlots).
		Where(squirrel.Eq{"id": r.ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]domain.Slot, 0)
	for rows.Next() {
		sl, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("GetAll: %w", err)
		}
		slots = append(slots, sl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAll - rows iteration: %v", ErrScanRow, err)
	}

	return slots, nil
}

// Get возвращает слот по ID
func (r *Repository) Get(ctx context.Context, id domain.SlotID) (domain.Slot, error) {
	return r.get(ctx, id, false)
}

// Apply применяет мутацию к слоту в транзакции с блокировкой строки
func (r *Repository) Apply(ctx context.Context, id domain.SlotID, mutate Mutation) (domain.Slot, error) {
	if !r.isKnown(id) {
		return domain.Slot{}, fmt.Errorf("%w: id=%d", ErrSlotNotFound, id)
	}

	var result domain.Slot

	err := r.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := r.get(txCtx, id, true)
		if err != nil {
			return err
		}

		next, err := mutate(current)
		if err != nil {
			return err
		}

		if next.ID != id {
			return fmt.Errorf("%w: mutation changed id %d -> %d", ErrInvalidSlot, id, next.ID)
		}
		if err := next.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSlot, err)
		}

		if err := r.update(txCtx, next); err != nil {
			return err
		}

		result = next
		return nil
	})
	if err != nil {
		return domain.Slot{}, err
	}

	return result, nil
}

func (r *Repository) isKnown(id domain.SlotID) bool {
	_, ok := r.known[id]
	return ok
}

func (r *Repository) get(ctx context.Context, id domain.SlotID, forUpdate bool) (domain.Slot, error) {
	if !r.isKnown(id) {
		return domain.Slot{}, fmt.Errorf("%w: id=%d", ErrSlotNotFound, id)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From(tableSlots).
		Where(squirrel.Eq{"id": int64(id)})

	// Внутри транзакции блокируем строку до коммита
	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return domain.Slot{}, fmt.Errorf("%w: get - build select query: %v", ErrBuildQuery, err)
	}

	sl, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Slot{}, fmt.Errorf("%w: id=%d", ErrSlotNotFound, id)
		}
		return domain.Slot{}, fmt.Errorf("get: %w", err)
	}

	return sl, nil
}

func (r *Repository) update(ctx context.Context, sl domain.Slot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	vehicle, phone, entryTime := toNullable(sl)
	query, args, err := psqlbuilder.Update(tableSlots).
		Set("status", string(sl.Status)).
		Set("vehicle", vehicle).
		Set("phone", phone).
		Set("entry_time", entryTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": int64(sl.ID)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", ErrSlotNotFound, sl.ID)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (domain.Slot, error) {
	var (
		id        int64
		status    string
		vehicle   sql.NullString
		phone     sql.NullString
		entryTime sql.NullTime
	)

	if err := row.Scan(&id, &status, &vehicle, &phone, &entryTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Slot{}, err
		}
		return domain.Slot{}, fmt.Errorf("%w: %v", ErrScanRow, err)
	}

	slotStatus, err := domain.ParseSlotStatus(status)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("%w: id=%d: %v", ErrScanRow, id, err)
	}

	sl := domain.Slot{
		ID:      domain.SlotID(id),
		Status:  slotStatus,
		Vehicle: vehicle.String,
		Phone:   phone.String,
	}
	if entryTime.Valid {
		sl.EntryTime = entryTime.Time.UTC()
	}

	return sl, nil
}

// toNullable переводит группу полей занятости в NULL для пустого слота
func toNullable(sl domain.Slot) (vehicle, phone sql.NullString, entryTime sql.NullTime) {
	if !sl.IsOccupied() {
		return
	}

	vehicle = sql.NullString{String: sl.Vehicle, Valid: true}
	phone = sql.NullString{String: sl.Phone, Valid: true}
	entryTime = sql.NullTime{Time: sl.EntryTime, Valid: true}
	return
}
