package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/fuelog/internal/domain"
	"github.com/hitoshi/fuelog/internal/middleware"
	"github.com/hitoshi/fuelog/internal/vehicle"
)

// VehicleServiceInterface は車両ハンドラーが必要とするサービスインターフェース。
type VehicleServiceInterface interface {
	// ListVehicles はユーザーがアクセス可能な車両一覧を返す。
	ListVehicles(ctx context.Context, userID string) ([]*domain.Vehicle, error)
	// GetVehicle は車両詳細を取得する。
	GetVehicle(ctx context.Context, vehicleID, userID string) (*domain.Vehicle, error)
	// CreateVehicle は車両を登録する。
	CreateVehicle(ctx context.Context, ownerID string, input vehicle.CreateVehicleInput) (*domain.Vehicle, error)
	// UpdateVehicle は車両情報を更新する。
	UpdateVehicle(ctx context.Context, vehicleID, userID string, input vehicle.UpdateVehicleInput) (*domain.Vehicle, error)
	// DeleteVehicle は車両を削除する。
	DeleteVehicle(ctx context.Context, vehicleID, userID string) error
}

// VehicleHandler は車両管理のHTTPハンドラー。
type VehicleHandler struct {
	service VehicleServiceInterface
}

// NewVehicleHandler はVehicleHandlerを生成する。
func NewVehicleHandler(service VehicleServiceInterface) *VehicleHandler {
	return &VehicleHandler{
		service: service,
	}
}

// createVehicleRequest は車両登録リクエストのボディ。
type createVehicleRequest struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	FuelType     string `json:"fuel_type"`
	Memo         string `json:"memo"`
}

// updateVehicleRequest は車両更新リクエストのボディ。nilのフィールドは変更しない。
type updateVehicleRequest struct {
	Manufacturer *string `json:"manufacturer"`
	Model        *string `json:"model"`
	FuelType     *string `json:"fuel_type"`
	Memo         *string `json:"memo"`
}

// vehicleResponse は車両情報のAPIレスポンス。
type vehicleResponse struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Manufacturer string    `json:"manufacturer"`
	Model        string    `json:"model"`
	FuelType     string    `json:"fuel_type"`
	Memo         string    `json:"memo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// ListVehicles はアクセス可能な車両一覧を返す。
// GET /api/vehicles
func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	vehicles, err := h.service.ListVehicles(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]vehicleResponse, len(vehicles))
	for i, v := range vehicles {
		results[i] = toVehicleResponse(v)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"vehicles": results,
	})
}

// GetVehicle は車両詳細を取得する。
// GET /api/vehicles/:id
func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	vehicleID := chi.URLParam(r, "id")

	v, err := h.service.GetVehicle(r.Context(), vehicleID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toVehicleResponse(v))
}

// CreateVehicle は車両登録を処理する。
// POST /api/vehicles
func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	v, err := h.service.CreateVehicle(r.Context(), userID, vehicle.CreateVehicleInput{
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		FuelType:     domain.FuelType(req.FuelType),
		Memo:         req.Memo,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toVehicleResponse(v))
}

// UpdateVehicle は車両情報を更新する。
// PATCH /api/vehicles/:id
func (h *VehicleHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	vehicleID := chi.URLParam(r, "id")

	var req updateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	input := vehicle.UpdateVehicleInput{
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		Memo:         req.Memo,
	}
	if req.FuelType != nil {
		fuelType := domain.FuelType(*req.FuelType)
		input.FuelType = &fuelType
	}

	v, err := h.service.UpdateVehicle(r.Context(), vehicleID, userID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toVehicleResponse(v))
}

// DeleteVehicle は車両を削除する。
// DELETE /api/vehicles/:id
func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	vehicleID := chi.URLParam(r, "id")

	if err := h.service.DeleteVehicle(r.Context(), vehicleID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- ヘルパー関数 ---

// toVehicleResponse はdomain.VehicleからAPIレスポンスに変換する。
func toVehicleResponse(v *domain.Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:           v.ID,
		OwnerID:      v.OwnerID,
		Manufacturer: v.Manufacturer,
		Model:        v.Model,
		FuelType:     string(v.FuelType),
		Memo:         v.Memo,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *domain.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// writeUnauthorized は認証エラーの統一レスポンスを書き込む。
func writeUnauthorized(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusUnauthorized, &domain.APIError{
		Code:     "UNAUTHORIZED",
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	})
}

// writeInvalidRequestBody はリクエストボディ解析エラーの統一レスポンスを書き込む。
func writeInvalidRequestBody(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &domain.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		writeAPIErrorResponse(w, http.StatusBadRequest, &domain.APIError{
			Code:     validationErr.Code,
			Message:  validationErr.Message,
			Category: "validation",
			Action:   "入力内容を確認してください。",
		})
		return
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &domain.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *domain.APIError) int {
	switch apiErr.Code {
	case domain.ErrCodeVehicleNotFound,
		domain.ErrCodeFuelRecordNotFound,
		domain.ErrCodePermissionNotFound,
		domain.ErrCodeUserNotFound:
		return http.StatusNotFound
	case domain.ErrCodePermissionDenied:
		return http.StatusForbidden
	case domain.ErrCodeCannotRevokeOwner:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
