// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/fuelog/internal/domain"
	"github.com/hitoshi/fuelog/internal/repository"
)

// Service はユーザー管理のサービス層。
// プロフィール取得・更新と退会処理を提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	vehicleRepo repository.VehicleRepository
	permRepo    repository.PermissionRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	vehicleRepo repository.VehicleRepository,
	permRepo repository.PermissionRepository,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		vehicleRepo: vehicleRepo,
		permRepo:    permRepo,
	}
}

// UpdateProfileInput はプロフィール更新の入力。nilのフィールドは変更しない。
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

// GetProfile はユーザーのプロフィールを取得する。
func (s *Service) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, domain.NewUserNotFoundError()
	}
	return user, nil
}

// UpdateProfile はユーザーのプロフィールを更新する。
func (s *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, domain.NewUserNotFoundError()
	}

	result := domain.UpdateUser(*user, domain.UpdateUserParams{
		Name:  input.Name,
		Email: input.Email,
	})
	if result.IsErr() {
		return nil, result.Err()
	}
	updated := result.Value()

	if err := s.userRepo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("ユーザーの更新に失敗しました: %w", err)
	}

	return &updated, nil
}

// Withdraw はユーザーの退会処理を実行する。
// 削除順序: 共有権限 → 所有車両（+ CASCADE: fuel_records, vehicle_permissions）→ セッション → ユーザー
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	// ユーザー存在確認
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return domain.NewUserNotFoundError()
	}

	slog.Info("退会処理を開始します",
		slog.String("user_id", userID),
	)

	// 1. 付与された権限と付与した権限を削除
	if err := s.permRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("権限の削除に失敗しました: %w", err)
	}

	// 2. 所有車両を削除（fuel_records, vehicle_permissionsはCASCADE削除）
	if err := s.vehicleRepo.DeleteByOwnerID(ctx, userID); err != nil {
		return fmt.Errorf("車両の削除に失敗しました: %w", err)
	}

	// 3. セッションを削除
	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("セッションの削除に失敗しました: %w", err)
	}

	// 4. ユーザーを削除
	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("退会処理が完了しました",
		slog.String("user_id", userID),
	)

	return nil
}
