// Package sharing は車両の共有権限管理のドメインロジックを提供する。
package sharing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/fuelog/internal/domain"
	"github.com/hitoshi/fuelog/internal/repository"
)

// Service は車両共有権限のサービス層。
// 権限の付与・取り消し・一覧取得を提供する。権限の管理操作は
// 車両の所有者またはadmin権限を持つユーザーのみが行える。
type Service struct {
	vehicleRepo repository.VehicleRepository
	permRepo    repository.PermissionRepository
	userRepo    repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	vehicleRepo repository.VehicleRepository,
	permRepo repository.PermissionRepository,
	userRepo repository.UserRepository,
) *Service {
	return &Service{
		vehicleRepo: vehicleRepo,
		permRepo:    permRepo,
		userRepo:    userRepo,
	}
}

// PermissionEntry は権限一覧の1件分。付与先ユーザーの表示情報を含む。
type PermissionEntry struct {
	domain.Permission
	UserName  string
	UserEmail string
}

// GrantPermission は車両への共有権限を付与する。
// 既に権限が付与されているユーザーにはレベルを上書きする。
func (s *Service) GrantPermission(ctx context.Context, vehicleID, granterID, targetUserID string, level domain.PermissionLevel) (*domain.Permission, error) {
	vehicle, granterLevel, err := s.findVehicleWithLevel(ctx, vehicleID, granterID)
	if err != nil {
		return nil, err
	}
	if granterLevel == "" {
		return nil, domain.NewVehicleNotFoundError(vehicleID)
	}
	if !domain.CanManagePermissions(domain.Permission{Level: granterLevel}) {
		return nil, domain.NewPermissionDeniedError()
	}

	target, err := s.userRepo.FindByID(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if target == nil {
		return nil, domain.NewUserNotFoundError()
	}

	// 所有者は常にadmin相当のため権限付与の対象にならない。
	if target.ID == vehicle.OwnerID {
		return nil, domain.NewPermissionDeniedError()
	}

	result := domain.CreatePermission(domain.CreatePermissionParams{
		Level:     level,
		VehicleID: vehicleID,
		UserID:    targetUserID,
		GrantedBy: granterID,
	})
	if result.IsErr() {
		return nil, result.Err()
	}
	permission := result.Value()

	if err := s.permRepo.Upsert(ctx, &permission); err != nil {
		return nil, fmt.Errorf("権限の登録に失敗しました: %w", err)
	}

	slog.Info("permission granted",
		slog.String("vehicle_id", vehicleID),
		slog.String("user_id", targetUserID),
		slog.String("level", string(level)),
		slog.String("granted_by", granterID),
	)

	return &permission, nil
}

// RevokePermission は車両への共有権限を取り消す。
// 所有者の権限は取り消せない。
func (s *Service) RevokePermission(ctx context.Context, vehicleID, requesterID, targetUserID string) error {
	vehicle, requesterLevel, err := s.findVehicleWithLevel(ctx, vehicleID, requesterID)
	if err != nil {
		return err
	}
	if requesterLevel == "" {
		return domain.NewVehicleNotFoundError(vehicleID)
	}
	if !domain.CanManagePermissions(domain.Permission{Level: requesterLevel}) {
		return domain.NewPermissionDeniedError()
	}

	if targetUserID == vehicle.OwnerID {
		return domain.NewCannotRevokeOwnerError()
	}

	permission, err := s.permRepo.FindByVehicleAndUser(ctx, vehicleID, targetUserID)
	if err != nil {
		return fmt.Errorf("権限の取得に失敗しました: %w", err)
	}
	if permission == nil {
		return domain.NewPermissionNotFoundError()
	}

	if err := s.permRepo.DeleteByVehicleAndUser(ctx, vehicleID, targetUserID); err != nil {
		return fmt.Errorf("権限の削除に失敗しました: %w", err)
	}

	slog.Info("permission revoked",
		slog.String("vehicle_id", vehicleID),
		slog.String("user_id", targetUserID),
		slog.String("revoked_by", requesterID),
	)

	return nil
}

// ListPermissions は車両に付与された権限一覧を付与先ユーザー情報付きで返す。
// 閲覧権限があれば誰でも参照できる。
func (s *Service) ListPermissions(ctx context.Context, vehicleID, requesterID string) ([]PermissionEntry, error) {
	_, level, err := s.findVehicleWithLevel(ctx, vehicleID, requesterID)
	if err != nil {
		return nil, err
	}
	if level == "" {
		return nil, domain.NewVehicleNotFoundError(vehicleID)
	}

	permissions, err := s.permRepo.ListByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("権限一覧の取得に失敗しました: %w", err)
	}

	entries := make([]PermissionEntry, 0, len(permissions))
	for _, permission := range permissions {
		entry := PermissionEntry{Permission: *permission}
		user, err := s.userRepo.FindByID(ctx, permission.UserID)
		if err != nil {
			return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
		}
		if user != nil {
			entry.UserName = user.Name
			entry.UserEmail = user.Email
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// findVehicleWithLevel は車両とユーザーの実効権限レベルを取得する。
// 所有者はadmin扱い。権限がない場合はlevelが空文字となる。
func (s *Service) findVehicleWithLevel(ctx context.Context, vehicleID, userID string) (*domain.Vehicle, domain.PermissionLevel, error) {
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
