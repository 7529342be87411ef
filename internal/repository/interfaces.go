// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/fuelog/internal/domain"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// FindByGoogleID はGoogleアカウントIDでユーザーを検索する。見つからない場合はnilを返す。
	FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *domain.User) error

	// Update はユーザーのプロフィール情報を更新する。
	Update(ctx context.Context, user *domain.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するsessions、vehicles、vehicle_permissionsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *domain.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// VehicleRepository は車両データの永続化インターフェース。
type VehicleRepository interface {
	// FindByID は指定IDの車両を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*domain.Vehicle, error)

	// ListByOwnerID は指定ユーザーが所有する車両一覧を作成日時順で返す。
	ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Vehicle, error)

	// ListAccessibleByUserID は指定ユーザーがアクセス可能な車両一覧を返す。
	// 所有する車両と権限を付与された車両の両方を含む。
	ListAccessibleByUserID(ctx context.Context, userID string) ([]*domain.Vehicle, error)

	// Create は車両を作成する。
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// Update は車両情報を更新する。
	Update(ctx context.Context, vehicle *domain.Vehicle) error

	// DeleteByID は指定IDの車両を削除する。
	// 関連するfuel_records、vehicle_permissionsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error

	// DeleteByOwnerID は指定ユーザーが所有する全車両を削除する。
	DeleteByOwnerID(ctx context.Context, ownerID string) error
}

// FuelRecordRepository は給油記録データの永続化インターフェース。
type FuelRecordRepository interface {
	// FindByID は指定IDの給油記録を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*domain.FuelRecord, error)

	// ListByVehicleID は車両の給油記録一覧を給油日の昇順で返す。
	// 同一日時の記録は作成日時の昇順で並べる。
	ListByVehicleID(ctx context.Context, vehicleID string) ([]*domain.FuelRecord, error)

	// Create は給油記録を作成する。
	Create(ctx context.Context, record *domain.FuelRecord) error

	// Update は給油記録を更新する。
	Update(ctx context.Context, record *domain.FuelRecord) error

	// DeleteByID は指定IDの給油記録を削除する。
	DeleteByID(ctx context.Context, id string) error
}

// PermissionRepository は車両共有権限の永続化インターフェース。
type PermissionRepository interface {
	// FindByVehicleAndUser は車両IDとユーザーIDで権限を検索する。見つからない場合はnilを返す。
	FindByVehicleAndUser(ctx context.Context, vehicleID, userID string) (*domain.Permission, error)

	// ListByVehicleID は車両に付与された権限一覧を付与日時順で返す。
	ListByVehicleID(ctx context.Context, vehicleID string) ([]*domain.Permission, error)

	// Upsert は権限を冪等に登録する。
	// 同一の(vehicle_id, user_id)が存在する場合はレベルと付与情報を上書きする。
	Upsert(ctx context.Context, permission *domain.Permission) error

	// DeleteByVehicleAndUser は車両IDとユーザーIDで権限を削除する。
	DeleteByVehicleAndUser(ctx context.Context, vehicleID, userID string) error

	// DeleteByUserID は指定ユーザーに関連する全権限を削除する。
	// 付与された権限と付与した権限の両方を削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}
