// Package vehicle は車両管理のドメインロジックを提供する。
package vehicle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hitoshi/fuelog/internal/domain"
	"github.com/hitoshi/fuelog/internal/repository"
)

// Service は車両管理のサービス層。
// 車両のCRUD操作と共有権限に基づくアクセス制御を提供する。
type Service struct {
	vehicleRepo repository.VehicleRepository
	permRepo    repository.PermissionRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	vehicleRepo repository.VehicleRepository,
	permRepo repository.PermissionRepository,
) *Service {
	return &Service{
		vehicleRepo: vehicleRepo,
		permRepo:    permRepo,
	}
}

// CreateVehicleInput は車両登録の入力。
type CreateVehicleInput struct {
	Manufacturer string
	Model        string
	FuelType     domain.FuelType
	Memo         string
}

// UpdateVehicleInput は車両更新の入力。nilのフィールドは変更しない。
type UpdateVehicleInput struct {
	Manufacturer *string
	Model        *string
	FuelType     *domain.FuelType
	Memo         *string
}

// ListVehicles はユーザーがアクセス可能な車両一覧を返す。
// 所有する車両と共有された車両の両方を含む。
func (s *Service) ListVehicles(ctx context.Context, userID string) ([]*domain.Vehicle, error) {
	vehicles, err := s.vehicleRepo.ListAccessibleByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("車両一覧の取得に失敗しました: %w", err)
	}
	return vehicles, nil
}

// GetVehicle は指定IDの車両を取得する。
// 閲覧権限のないユーザーには車両の存在を開示しない。
func (s *Service) GetVehicle(ctx context.Context, vehicleID, userID string) (*domain.Vehicle, error) {
	vehicle, level, err := s.findWithLevel(ctx, vehicleID, userID)
	if err != nil {
		return nil, err
	}
	if level == "" {
		return nil, domain.NewVehicleNotFoundError(vehicleID)
	}
	return vehicle, nil
}

// CreateVehicle は車両を登録する。登録したユーザーが所有者となる。
func (s *Service) CreateVehicle(ctx context.Context, ownerID string, input CreateVehicleInput) (*domain.Vehicle, error) {
	result := domain.CreateVehicle(domain.CreateVehicleParams{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		Manufacturer: input.Manufacturer,
		Model:        input.Model,
		FuelType:     input.FuelType,
		Memo:         input.Memo,
	})
	if result.IsErr() {
		return nil, result.Err()
	}
	vehicle := result.Value()

	if err := s.vehicleRepo.Create(ctx, &vehicle); err != nil {
		return nil, fmt.Errorf("車両の作成に失敗しました: %w", err)
	}

	slog.Info("vehicle created",
		slog.String("vehicle_id", vehicle.ID),
		slog.String("owner_id", ownerID),
	)

	return &vehicle, nil
}

// UpdateVehicle は車両情報を更新する。editor以上の権限が必要。
func (s *Service) UpdateVehicle(ctx context.Context, vehicleID, userID string, input UpdateVehicleInput) (*domain.Vehicle, error) {
	vehicle, level, err := s.findWithLevel(ctx, vehicleID, userID)
	if err != nil {
		return nil, err
	}
	if level == "" {
		return nil, domain.NewVehicleNotFoundError(vehicleID)
	}
	if !domain.CanEdit(domain.Permission{Level: level}) {
		return nil, domain.NewPermissionDeniedError()
	}

	result := domain.UpdateVehicle(*vehicle, domain.UpdateVehicleParams{
		Manufacturer: input.Manufacturer,
		Model:        input.Model,
		FuelType:     input.FuelType,
		Memo:         input.Memo,
	})
	if result.IsErr() {
		return nil, result.Err()
	}
	updated := result.Value()

	if err := s.vehicleRepo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("車両の更新に失敗しました: %w", err)
	}

	return &updated, nil
}

// DeleteVehicle は車両を削除する。admin権限が必要。
// 関連する給油記録と共有設定はCASCADE削除される。
func (s *Service) DeleteVehicle(ctx context.Context, vehicleID, userID string) error {
	_, level, err := s.findWithLevel(ctx, vehicleID, userID)
	if err != nil {
		return err
	}
	if level == "" {
		return domain.NewVehicleNotFoundError(vehicleID)
	}
	if !domain.CanDelete(domain.Permission{Level: level}) {
		return domain.NewPermissionDeniedError()
	}

	if err := s.vehicleRepo.DeleteByID(ctx, vehicleID); err != nil {
		return fmt.Errorf("車両の削除に失敗しました: %w", err)
	}

	slog.Info("vehicle deleted",
		slog.String("vehicle_id", vehicleID),
		slog.String("user_id", userID),
	)

	return nil
}

// findWithLevel は車両とユーザーの実効権限レベルを取得する。
// 所有者はadmin扱い。権限がない場合はlevelが空文字となる。
// 車両が存在しない場合はVehicleNotFoundエラーを返す。
func (s *Service) findWithLevel(ctx context.Context, vehicleID, userID string) (*domain.Vehicle, domain.PermissionLevel, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, "", fmt.Errorf("車両の取得に失敗しました: %w", err)
	}
	if vehicle == nil {
		return nil, "", domain.NewVehicleNotFoundError(vehicleID)
	}

	if vehicle.OwnerID == userID {
		return vehicle, domain.PermissionAdmin, nil
	}

	perm, err := s.permRepo.FindByVehicleAndUser(ctx, vehicleID, userID)
	if err != nil {
		return nil, "", fmt.Errorf("権限の取得に失敗しました: %w", err)
	}
	if perm == nil {
		return vehicle, "", nil
	}

	return vehicle, perm.Level, nil
}
