package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/fuelog/internal/domain"
	"github.com/hitoshi/fuelog/internal/middleware"
	"github.com/hitoshi/fuelog/internal/sharing"
)

// SharingServiceInterface は共有権限ハンドラーが必要とするサービスインターフェース。
type SharingServiceInterface interface {
	// GrantPermission は車両の共有権限を付与する。既存の権限はレベルを上書きする。
	GrantPermission(ctx context.Context, vehicleID, granterID, targetUserID string, level domain.PermissionLevel) (*domain.Permission, error)
	// RevokePermission は車両の共有権限を剥奪する。
	RevokePermission(ctx context.Context, vehicleID, requesterID, targetUserID string) error
	// ListPermissions は車両の共有権限一覧をユーザー情報付きで返す。
	ListPermissions(ctx context.Context, vehicleID, requesterID string) ([]sharing.PermissionEntry, error)
}

// SharingHandler は車両共有権限管理のHTTPハンドラー。
type SharingHandler struct {
	service SharingServiceInterface
}

// NewSharingHandler はSharingHandlerを生成する。
func NewSharingHandler(service SharingServiceInterface) *SharingHandler {
	return &SharingHandler{
		service: service,
	}
}

// grantPermissionRequest は権限付与リクエストのボディ。
type grantPermissionRequest struct {
	UserID string `json:"user_id"`
	Level  string `json:"level"`
}

// permissionResponse は共有権限のAPIレスポンス。
type permissionResponse struct {
	VehicleID string    `json:"vehicle_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	UserEmail string    `json:"user_email,omitempty"`
	Level     string    `json:"level"`
	GrantedBy string    `json:"granted_by"`
	GrantedAt time.Time `json:"granted_at"`
}

// ListPermissions は車両の共有権限一覧を返す。
// GET /api/vehicles/:id/permissions
func (h *SharingHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	vehicleID := chi.URLParam(r, "id")

	entries, err := h.service.ListPermissions(r.Context(), vehicleID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]permissionResponse, len(entries))
	for i, entry := range entries {
		results[i] = permissionResponse{
			VehicleID: entry.VehicleID,
			UserID:    entry.UserID,
			UserName:  entry.UserName,
			UserEmail: entry.UserEmail,
			Level:     string(entry.Level),
			GrantedBy: entry.GrantedBy,
			GrantedAt: entry.GrantedAt,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"permissions": results,
	})
}

// GrantPermission は車両の共有権限の付与を処理する。
// PUT /api/vehicles/:id/permissions
func (h *SharingHandler) GrantPermission(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	vehicleID := chi.URLParam(r, "id")

	var req grantPermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	permission, err := h.service.GrantPermission(r.Context(), vehicleID, userID, req.UserID, domain.PermissionLevel(req.Level))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(permissionResponse{
		VehicleID: permission.VehicleID,
		UserID:    permission.UserID,
		Level:     string(permission.Level),
		GrantedBy: permission.GrantedBy,
		GrantedAt: permission.GrantedAt,
	})
}

// RevokePermission は車両の共有権限の剥奪を処理する。
// DELETE /api/vehicles/:id/permissions/:userID
func (h *SharingHandler) RevokePermission(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	vehicleID := chi.URLParam(r, "id")
	targetUserID := chi.URLParam(r, "userID")

	if err := h.service.RevokePermission(r.Context(), vehicleID, userID, targetUserID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
