package update_slot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ParkingService/internal/service/lifecycle"
	"github.com/m04kA/SMC-ParkingService/internal/service/lifecycle/models"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

func newTestHandler(t *testing.T) (*Handler, *lifecycle.Service) {
	t.Helper()

	store, err := slotRepo.NewMemoryStore([]domain.Slot{
		domain.NewEmptySlot(1),
		domain.NewEmptySlot(2),
		domain.NewEmptySlot(3),
	})
	require.NoError(t, err)

	svc := lifecycle.NewService(store, domain.DefaultFeePolicy(), nil, logger.NewNop())
	return NewHandler(svc, logger.NewNop()), svc
}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/update", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()

	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandle_CheckIn(t *testing.T) {
	h, svc := newTestHandler(t)

	rec := post(h, `{"cardId":"2","action":"checkin","vehicle":"ka-01-ab-1234","phone":"9876543210"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CheckInResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Success", resp.Message)
	assert.Equal(t, int64(2), resp.Data.ID)
	assert.Equal(t, "occupied", resp.Data.Status)
	require.NotNil(t, resp.Data.Vehicle)
	assert.Equal(t, "KA-01-AB-1234", *resp.Data.Vehicle)
	require.NotNil(t, resp.Data.EntryTime)
	_, err := time.Parse(time.RFC3339Nano, *resp.Data.EntryTime)
	assert.NoError(t, err)

	slot, err := svc.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, slot.IsOccupied())
}

func TestHandle_CheckOutImmediately(t *testing.T) {
	h, _ := newTestHandler(t)

	require.Equal(t, http.StatusOK, post(h, `{"cardId":1,"action":"checkin","vehicle":"MH-12"}`).Code)

	rec := post(h, `{"cardId":1,"action":"checkout"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Contains(t, raw, "receipt")

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(raw["data"], &data))
	assert.Equal(t, "empty", data["status"])
	assert.Nil(t, data["vehicle"])
	assert.Nil(t, data["phone"])
	assert.Nil(t, data["entryTime"])
	assert.Equal(t, float64(0), data["durationMinutes"])
	assert.Equal(t, float64(50), data["fee"])

	var resp CheckOutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Receipt.ID)
	assert.Equal(t, int64(1), resp.Receipt.SlotID)
	assert.Equal(t, "MH-12", resp.Receipt.Vehicle)
	assert.Equal(t, int64(50), resp.Receipt.Fee)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		setup      []string
		body       string
		wantStatus int
		wantError  string
		wantKind   string
	}{
		{
			name:       "malformed body",
			body:       `{"cardId":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid Request Body",
			wantKind:   handlers.KindValidation,
		},
		{
			name:       "card id of wrong type",
			body:       `{"cardId":true,"action":"checkin"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid Request Body",
			wantKind:   handlers.KindValidation,
		},
		{
			name:       "unknown card",
			body:       `{"cardId":"7","action":"checkin","vehicle":"A1"}`,
			wantStatus: http.StatusNotFound,
			wantError:  "Invalid Card ID",
			wantKind:   handlers.KindNotFound,
		},
		{
			name:       "non-numeric card",
			body:       `{"cardId":"abc","action":"checkout"}`,
			wantStatus: http.StatusNotFound,
			wantError:  "Invalid Card ID",
			wantKind:   handlers.KindNotFound,
		},
		{
			name:       "missing card",
			body:       `{"action":"checkout"}`,
			wantStatus: http.StatusNotFound,
			wantError:  "Invalid Card ID",
			wantKind:   handlers.KindNotFound,
		},
		{
			name:       "unknown card with unknown action",
			body:       `{"cardId":7,"action":"park"}`,
			wantStatus: http.StatusNotFound,
			wantError:  "Invalid Card ID",
			wantKind:   handlers.KindNotFound,
		},
		{
			name:       "unknown card without vehicle",
			body:       `{"cardId":7,"action":"checkin"}`,
			wantStatus: http.StatusNotFound,
			wantError:  "Invalid Card ID",
			wantKind:   handlers.KindNotFound,
		},
		{
			name:       "unknown card on checkout",
			body:       `{"cardId":"7","action":"checkout"}`,
			wantStatus: http.StatusNotFound,
			wantError:  "Invalid Card ID",
			wantKind:   handlers.KindNotFound,
		},
		{
			name:       "unknown action",
			body:       `{"cardId":1,"action":"park"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid Action",
			wantKind:   handlers.KindValidation,
		},
		{
			name:       "missing vehicle",
			body:       `{"cardId":1,"action":"checkin","vehicle":"  "}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Vehicle Is Required",
			wantKind:   handlers.KindValidation,
		},
		{
			name:       "vehicle too long",
			body:       `{"cardId":1,"action":"checkin","vehicle":"` + strings.Repeat("A", 33) + `"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Vehicle Or Phone Is Too Long",
			wantKind:   handlers.KindValidation,
		},
		{
			name:       "check-in on occupied slot",
			setup:      []string{`{"cardId":3,"action":"checkin","vehicle":"A1"}`},
			body:       `{"cardId":3,"action":"checkin","vehicle":"B2"}`,
			wantStatus: http.StatusConflict,
			wantError:  "Slot Already Occupied",
			wantKind:   handlers.KindInvalidTransition,
		},
		{
			name:       "check-out on empty slot",
			body:       `{"cardId":3,"action":"checkout"}`,
			wantStatus: http.StatusConflict,
			wantError:  "Slot Already Empty",
			wantKind:   handlers.KindInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			for _, body := range tt.setup {
				require.Equal(t, http.StatusOK, post(h, body).Code)
			}

			rec := post(h, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			body := decodeError(t, rec)
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, tt.wantKind, body.Kind)
		})
	}
}

type failingService struct {
	getErr error
}

func (f failingService) Get(_ context.Context, id domain.SlotID) (domain.Slot, error) {
	if f.getErr != nil {
		return domain.Slot{}, f.getErr
	}
	return domain.NewEmptySlot(id), nil
}

func (failingService) CheckIn(context.Context, *models.CheckInRequest) (*domain.Slot, error) {
	return nil, lifecycle.ErrInternal
}

func (failingService) CheckOut(context.Context, *models.CheckOutRequest) (*domain.CheckoutResult, error) {
	return nil, errors.New("unexpected")
}

func TestHandle_InternalError(t *testing.T) {
	h := NewHandler(failingService{}, logger.NewNop())

	for _, body := range []string{
		`{"cardId":1,"action":"checkin","vehicle":"A1"}`,
		`{"cardId":1,"action":"checkout"}`,
	} {
		rec := post(h, body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, handlers.KindInternal, decodeError(t, rec).Kind)
	}
}

func TestHandle_LookupError(t *testing.T) {
	h := NewHandler(failingService{getErr: lifecycle.ErrInternal}, logger.NewNop())

	rec := post(h, `{"cardId":1,"action":"park"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, handlers.KindInternal, decodeError(t, rec).Kind)
}

func TestHandle_ConcurrentCheckIn(t *testing.T) {
	h, _ := newTestHandler(t)

	const attempts = 16
	codes := make(chan int, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- post(h, `{"cardId":2,"action":"checkin","vehicle":"A1"}`).Code
		}()
	}
	wg.Wait()
	close(codes)

	counts := map[int]int{}
	for code := range codes {
		counts[code]++
	}
	assert.Equal(t, 1, counts[http.StatusOK])
	assert.Equal(t, attempts-1, counts[http.StatusConflict])
}

func TestCardID_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.SlotID
		wantErr bool
	}{
		{name: "number", input: `2`, want: 2},
		{name: "string", input: `"3"`, want: 3},
		{name: "padded string", input: `" 1 "`, want: 1},
		{name: "null", input: `null`, wantErr: true},
		{name: "zero", input: `0`, wantErr: true},
		{name: "negative", input: `"-1"`, wantErr: true},
		{name: "fraction", input: `1.5`, wantErr: true},
		{name: "word", input: `"two"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c CardID
			require.NoError(t, json.Unmarshal([]byte(tt.input), &c))

			id, err := c.ToSlotID()
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidCardID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}
