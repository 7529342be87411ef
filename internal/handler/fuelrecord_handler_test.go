package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/fuelog/internal/domain"
	"github.com/hitoshi/fuelog/internal/fuelrecord"
)

// --- モック定義 ---

// mockFuelRecordService はFuelRecordServiceInterfaceのモック実装。
type mockFuelRecordService struct {
	listRecordsFn  func(ctx context.Context, vehicleID, userID string) ([]fuelrecord.RecordWithEconomy, error)
	getRecordFn    func(ctx context.Context, recordID, userID string) (*domain.FuelRecord, error)
	createRecordFn func(ctx context.Context, vehicleID, userID string, input fuelrecord.CreateRecordInput) (*domain.FuelRecord, error)
	updateRecordFn func(ctx context.Context, recordID, userID string, input fuelrecord.UpdateRecordInput) (*domain.FuelRecord, error)
	deleteRecordFn func(ctx context.Context, recordID, userID string) error
}

func (m *mockFuelRecordService) ListRecords(ctx context.Context, vehicleID, userID string) ([]fuelrecord.RecordWithEconomy, error) {
	if m.listRecordsFn != nil {
		return m.listRecordsFn(ctx, vehicleID, userID)
	}
	return nil, nil
}

func (m *mockFuelRecordService) GetRecord(ctx context.Context, recordID, userID string) (*domain.FuelRecord, error) {
	if m.getRecordFn != nil {
		return m.getRecordFn(ctx, recordID, userID)
	}
	return nil, nil
}

func (m *mockFuelRecordService) CreateRecord(ctx context.Context, vehicleID, userID string, input fuelrecord.CreateRecordInput) (*domain.FuelRecord, error) {
	if m.createRecordFn != nil {
		return m.createRecordFn(ctx, vehicleID, userID, input)
	}
	return nil, nil
}

func (m *mockFuelRecordService) UpdateRecord(ctx context.Context, recordID, userID string, input fuelrecord.UpdateRecordInput) (*domain.FuelRecord, error) {
	if m.updateRecordFn != nil {
		return m.updateRecordFn(ctx, recordID, userID, input)
	}
	return nil, nil
}

func (m *mockFuelRecordService) DeleteRecord(ctx context.Context, recordID, userID string) error {
	if m.deleteRecordFn != nil {
		return m.deleteRecordFn(ctx, recordID, userID)
	}
	return nil
}

var _ FuelRecordServiceInterface = (*mockFuelRecordService)(nil)

func testDomainFuelRecord() *domain.FuelRecord {
	date := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	return &domain.FuelRecord{
		ID:             "record-1",
		VehicleID:      "vehicle-1",
		Date:           date,
		GasStationName: "ENEOS 環七店",
		Odometer:       10500,
		FuelPrice:      165,
		FuelAmount:     25,
		TotalCost:      4125,
		IsFullTank:     true,
		CreatedAt:      date,
		UpdatedAt:      date,
	}
}

// --- GET /api/vehicles/:id/records テスト ---

func TestFuelRecordHandler_ListRecords_Success(t *testing.T) {
	economy := 20.0
	svc := &mockFuelRecordService{
		listRecordsFn: func(ctx context.Context, vehicleID, userID string) ([]fuelrecord.RecordWithEconomy, error) {
			if vehicleID != "vehicle-1" {
				t.Errorf("vehicleID = %q, want %q", vehicleID, "vehicle-1")
			}
			if userID != "user-123" {
				t.Errorf("userID = %q, want %q", userID, "user-123")
			}
			return []fuelrecord.RecordWithEconomy{
				{FuelRecord: *testDomainFuelRecord(), FuelEconomy: &economy},
			}, nil
		},
	}

	h := NewFuelRecordHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles/vehicle-1/records", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "vehicle-1")
	w := httptest.NewRecorder()

	h.ListRecords(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var result map[string][]fuelRecordResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	records := result["records"]
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].ID != "record-1" {
		t.Errorf("id = %q, want %q", records[0].ID, "record-1")
	}
	if records[0].FuelEconomy == nil || *records[0].FuelEconomy != 20.0 {
		t.Errorf("fuel_economy = %v, want 20.0", records[0].FuelEconomy)
	}
	if records[0].TotalCost != 4125 {
		t.Errorf("total_cost = %d, want 4125", records[0].TotalCost)
	}
}

func TestFuelRecordHandler_ListRecords_EconomyOmittedWhenNil(t *testing.T) {
	svc := &mockFuelRecordService{
		listRecordsFn: func(ctx context.Context, vehicleID, userID string) ([]fuelrecord.RecordWithEconomy, error) {
			return []fuelrecord.RecordWithEconomy{
				{FuelRecord: *testDomainFuelRecord()},
			}, nil
		},
	}

	h := NewFuelRecordHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles/vehicle-1/records", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "vehicle-1")
	w := httptest.NewRecorder()

	h.ListRecords(w, req)

	// 燃費が算出できない記録ではfuel_economyフィールド自体を省略する
	if bytes.Contains(w.Body.Bytes(), []byte("fuel_economy")) {
		t.Error("expected fuel_economy to be omitted when nil")
	}
}

func TestFuelRecordHandler_ListRecords_VehicleNotFound(t *testing.T) {
	svc := &mockFuelRecordService{
		listRecordsFn: func(ctx context.Context, vehicleID, userID string) ([]fuelrecord.RecordWithEconomy, error) {
			return nil, domain.NewVehicleNotFoundError(vehicleID)
		},
	}

	h := NewFuelRecordHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles/nonexistent/records", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "nonexistent")
	w := httptest.NewRecorder()

	h.ListRecords(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

// --- POST /api/vehicles/:id/records テスト ---

func TestFuelRecordHandler_CreateRecord_Success(t *testing.T) {
	svc := &mockFuelRecordService{
		createRecordFn: func(ctx context.Context, vehicleID, userID string, input fuelrecord.CreateRecordInput) (*domain.FuelRecord, error) {
			if vehicleID != "vehicle-1" {
				t.Errorf("vehicleID = %q, want %q", vehicleID, "vehicle-1")
			}
			if input.GasStationName != "出光 環七店" {
				t.Errorf("gasStationName = %q, want %q", input.GasStationName, "出光 環七店")
			}
			if input.FuelAmount != 35.2 {
				t.Errorf("fuelAmount = %v, want 35.2", input.FuelAmount)
			}
			if !input.IsFullTank {
				t.Error("expected isFullTank to be true")
			}
			return testDomainFuelRecord(), nil
		},
	}

	h := NewFuelRecordHandler(svc)

	body := `{
		"date": "2025-06-15T10:00:00Z",
		"gas_station_name": "出光 環七店",
		"odometer": 10500,
		"fuel_price": 168.5,
		"fuel_amount": 35.2,
		"is_full_tank": true
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/vehicles/vehicle-1/records", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "vehicle-1")
	w := httptest.NewRecorder()

	h.CreateRecord(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
}

func TestFuelRecordHandler_CreateRecord_ValidationError_ReturnsBadRequest(t *testing.T) {
	svc := &mockFuelRecordService{
		createRecordFn: func(ctx context.Context, vehicleID, userID string, input fuelrecord.CreateRecordInput) (*domain.FuelRecord, error) {
			return nil, domain.ErrFuelRecordOdometerTooLow
		},
	}

	h := NewFuelRecordHandler(svc)

	body := `{"date": "2025-06-15T10:00:00Z", "gas_station_name": "ENEOS", "odometer": -1, "fuel_price": 165, "fuel_amount": 30, "is_full_tank": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/vehicles/vehicle-1/records", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "vehicle-1")
	w := httptest.NewRecorder()

	h.CreateRecord(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != domain.ErrFuelRecordOdometerTooLow.Code {
		t.Errorf("code = %q, want %q", errResp["code"], domain.ErrFuelRecordOdometerTooLow.Code)
	}
	if errResp["category"] != "validation" {
		t.Errorf("category = %q, want %q", errResp["category"], "validation")
	}
}

func TestFuelRecordHandler_CreateRecord_PermissionDenied_ReturnsForbidden(t *testing.T) {
	svc := &mockFuelRecordService{
		createRecordFn: func(ctx context.Context, vehicleID, userID string, input fuelrecord.CreateRecordInput) (*domain.FuelRecord, error) {
			return nil, domain.NewPermissionDeniedError()
		},
	}

	h := NewFuelRecordHandler(svc)

	body := `{"date": "2025-06-15T10:00:00Z", "gas_station_name": "ENEOS", "odometer": 10500, "fuel_price": 165, "fuel_amount": 30, "is_full_tank": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/vehicles/vehicle-1/records", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, "viewer-1")
	req = withChiURLParam(req, "id", "vehicle-1")
	w := httptest.NewRecorder()

	h.CreateRecord(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
}

func TestFuelRecordHandler_CreateRecord_InvalidJSON_ReturnsBadRequest(t *testing.T) {
	h := NewFuelRecordHandler(&mockFuelRecordService{})

	body := `{invalid`
	req := httptest.NewRequest(http.MethodPost, "/api/vehicles/vehicle-1/records", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "vehicle-1")
	w := httptest.NewRecorder()

	h.CreateRecord(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

// --- GET /api/records/:id テスト ---

func TestFuelRecordHandler_GetRecord_Success(t *testing.T) {
	svc := &mockFuelRecordService{
		getRecordFn: func(ctx context.Context, recordID, userID string) (*domain.FuelRecord, error) {
			if recordID != "record-1" {
				t.Errorf("recordID = %q, want %q", recordID, "record-1")
			}
			return testDomainFuelRecord(), nil
		},
	}

	h := NewFuelRecordHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/records/record-1", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "record-1")
	w := httptest.NewRecorder()

	h.GetRecord(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var result fuelRecordResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result.GasStationName != "ENEOS 環七店" {
		t.Errorf("gas_station_name = %q, want %q", result.GasStationName, "ENEOS 環七店")
	}
	if result.Odometer != 10500 {
		t.Errorf("odometer = %d, want 10500", result.Odometer)
	}
}

func TestFuelRecordHandler_GetRecord_NotFound(t *testing.T) {
	svc := &mockFuelRecordService{
		getRecordFn: func(ctx context.Context, recordID, userID string) (*domain.FuelRecord, error) {
			return nil, domain.NewFuelRecordNotFoundError(recordID)
		},
	}

	h := NewFuelRecordHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/records/nonexistent", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "nonexistent")
	w := httptest.NewRecorder()

	h.GetRecord(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}

	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != domain.ErrCodeFuelRecordNotFound {
		t.Errorf("code = %q, want %q", errResp["code"], domain.ErrCodeFuelRecordNotFound)
	}
}

// --- PATCH /api/records/:id テスト ---

func TestFuelRecordHandler_UpdateRecord_Success(t *testing.T) {
	svc := &mockFuelRecordService{
		updateRecordFn: func(ctx context.Context, recordID, userID string, input fuelrecord.UpdateRecordInput) (*domain.FuelRecord, error) {
			if recordID != "record-1" {
				t.Errorf("recordID = %q, want %q", recordID, "record-1")
			}
			if input.FuelPrice == nil || *input.FuelPrice != 170 {
				t.Errorf("fuelPrice = %v, want 170", input.FuelPrice)
			}
			if input.Odometer != nil {
				t.Errorf("odometer = %v, want nil", input.Odometer)
			}
			rec := testDomainFuelRecord()
			rec.FuelPrice = *input.FuelPrice
			rec.TotalCost = 4250
			return rec, nil
		},
	}

	h := NewFuelRecordHandler(svc)

	body := `{"fuel_price": 170}`
	req := httptest.NewRequest(http.MethodPatch, "/api/records/record-1", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "record-1")
	w := httptest.NewRecorder()

	h.UpdateRecord(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var result fuelRecordResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result.TotalCost != 4250 {
		t.Errorf("total_cost = %d, want 4250", result.TotalCost)
	}
}

// --- DELETE /api/records/:id テスト ---

func TestFuelRecordHandler_DeleteRecord_Success(t *testing.T) {
	deleteCalled := false
	svc := &mockFuelRecordService{
		deleteRecordFn: func(ctx context.Context, recordID, userID string) error {
			deleteCalled = true
			if recordID != "record-1" {
				t.Errorf("recordID = %q, want %q", recordID, "record-1")
			}
			return nil
		},
	}

	h := NewFuelRecordHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/records/record-1", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "record-1")
	w := httptest.NewRecorder()

	h.DeleteRecord(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	if !deleteCalled {
		t.Error("expected DeleteRecord to be called")
	}
}

func TestFuelRecordHandler_DeleteRecord_InternalError_ReturnsInternalServerError(t *testing.T) {
	svc := &mockFuelRecordService{
		deleteRecordFn: func(ctx context.Context, recordID, userID string) error {
			return errors.New("database error")
		},
	}

	h := NewFuelRecordHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/records/record-1", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "record-1")
	w := httptest.NewRecorder()

	h.DeleteRecord(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}
}

func TestFuelRecordHandler_DeleteRecord_NoUserID_ReturnsUnauthorized(t *testing.T) {
	h := NewFuelRecordHandler(&mockFuelRecordService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/records/record-1", nil)
	// ユーザーIDを注入しない
	req = withChiURLParam(req, "id", "record-1")
	w := httptest.NewRecorder()

	h.DeleteRecord(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}
