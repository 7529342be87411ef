package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/fuelog/internal/domain"
	"github.com/hitoshi/fuelog/internal/fuelrecord"
	"github.com/hitoshi/fuelog/internal/middleware"
)

// FuelRecordServiceInterface は給油記録ハンドラーが必要とするサービスインターフェース。
type FuelRecordServiceInterface interface {
	// ListRecords は車両の給油記録一覧を燃費付きで返す。
	ListRecords(ctx context.Context, vehicleID, userID string) ([]fuelrecord.RecordWithEconomy, error)
	// GetRecord は給油記録を取得する。
	GetRecord(ctx context.Context, recordID, userID string) (*domain.FuelRecord, error)
	// CreateRecord は給油記録を登録する。
	CreateRecord(ctx context.Context, vehicleID, userID string, input fuelrecord.CreateRecordInput) (*domain.FuelRecord, error)
	// UpdateRecord は給油記録を更新する。
	UpdateRecord(ctx context.Context, recordID, userID string, input fuelrecord.UpdateRecordInput) (*domain.FuelRecord, error)
	// DeleteRecord は給油記録を削除する。
	DeleteRecord(ctx context.Context, recordID, userID string) error
}

// FuelRecordHandler は給油記録管理のHTTPハンドラー。
type FuelRecordHandler struct {
	service FuelRecordServiceInterface
}

// NewFuelRecordHandler はFuelRecordHandlerを生成する。
func NewFuelRecordHandler(service FuelRecordServiceInterface) *FuelRecordHandler {
	return &FuelRecordHandler{
		service: service,
	}
}

// createFuelRecordRequest は給油記録登録リクエストのボディ。
type createFuelRecordRequest struct {
	Date           time.Time `json:"date"`
	GasStationName string    `json:"gas_station_name"`
	Odometer       float64   `json:"odometer"`
	FuelPrice      float64   `json:"fuel_price"`
	FuelAmount     float64   `json:"fuel_amount"`
	IsFullTank     bool      `json:"is_full_tank"`
}

// updateFuelRecordRequest は給油記録更新リクエストのボディ。nilのフィールドは変更しない。
type updateFuelRecordRequest struct {
	Date           *time.Time `json:"date"`
	GasStationName *string    `json:"gas_station_name"`
	Odometer       *float64   `json:"odometer"`
	FuelPrice      *float64   `json:"fuel_price"`
	FuelAmount     *float64   `json:"fuel_amount"`
	IsFullTank     *bool      `json:"is_full_tank"`
}

// fuelRecordResponse は給油記録のAPIレスポンス。
// FuelEconomyは満タン法で算出できた場合のみ設定される。
type fuelRecordResponse struct {
	ID             string    `json:"id"`
	VehicleID      string    `json:"vehicle_id"`
	Date           time.Time `json:"date"`
	GasStationName string    `json:"gas_station_name"`
	Odometer       int       `json:"odometer"`
	FuelPrice      float64   `json:"fuel_price"`
	FuelAmount     float64   `json:"fuel_amount"`
	TotalCost      int       `json:"total_cost"`
	IsFullTank     bool      `json:"is_full_tank"`
	FuelEconomy    *float64  `json:"fuel_economy,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ListRecords は車両の給油記録一覧を返す。
// GET /api/vehicles/:id/records
func (h *FuelRecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	vehicleID := chi.URLParam(r, "id")

	records, err := h.service.ListRecords(r.Context(), vehicleID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]fuelRecordResponse, len(records))
	for i, rec := range records {
		resp := toFuelRecordResponse(&rec.FuelRecord)
		resp.FuelEconomy = rec.FuelEconomy
		results[i] = resp
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"records": results,
	})
}

// GetRecord は給油記録の詳細を取得する。
// GET /api/records/:id
func (h *FuelRecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	recordID := chi.URLParam(r, "id")

	record, err := h.service.GetRecord(r.Context(), recordID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toFuelRecordResponse(record))
}

// CreateRecord は給油記録の登録を処理する。
// POST /api/vehicles/:id/records
func (h *FuelRecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	vehicleID := chi.URLParam(r, "id")

	var req createFuelRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	record, err := h.service.CreateRecord(r.Context(), vehicleID, userID, fuelrecord.CreateRecordInput{
		Date:           req.Date,
		GasStationName: req.GasStationName,
		Odometer:       req.Odometer,
		FuelPrice:      req.FuelPrice,
		FuelAmount:     req.FuelAmount,
		IsFullTank:     req.IsFullTank,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toFuelRecordResponse(record))
}

// UpdateRecord は給油記録を更新する。
// PATCH /api/records/:id
func (h *FuelRecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	recordID := chi.URLParam(r, "id")

	var req updateFuelRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	record, err := h.service.UpdateRecord(r.Context(), recordID, userID, fuelrecord.UpdateRecordInput{
		Date:           req.Date,
		GasStationName: req.GasStationName,
		Odometer:       req.Odometer,
		FuelPrice:      req.FuelPrice,
		FuelAmount:     req.FuelAmount,
		IsFullTank:     req.IsFullTank,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toFuelRecordResponse(record))
}

// DeleteRecord は給油記録を削除する。
// DELETE /api/records/:id
func (h *FuelRecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	recordID := chi.URLParam(r, "id")

	if err := h.service.DeleteRecord(r.Context(), recordID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toFuelRecordResponse はdomain.FuelRecordからAPIレスポンスに変換する。
func toFuelRecordResponse(record *domain.FuelRecord) fuelRecordResponse {
	return fuelRecordResponse{
		ID:             record.ID,
		VehicleID:      record.VehicleID,
		Date:           record.Date,
		GasStationName: record.GasStationName,
		Odometer:       record.Odometer,
		FuelPrice:      record.FuelPrice,
		FuelAmount:     record.FuelAmount,
		TotalCost:      record.TotalCost,
		IsFullTank:     record.IsFullTank,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}
