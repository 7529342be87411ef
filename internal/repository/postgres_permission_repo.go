package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/fuelog/internal/domain"
)

// PostgresPermissionRepo はPostgreSQLを使用した車両共有権限リポジトリ。
type PostgresPermissionRepo struct {
	db *sql.DB
}

// NewPostgresPermissionRepo はPostgresPermissionRepoを生成する。
func NewPostgresPermissionRepo(db *sql.DB) *PostgresPermissionRepo {
	return &PostgresPermissionRepo{db: db}
}

// FindByVehicleAndUser は車両IDとユーザーIDで権限を検索する。見つからない場合はnilを返す。
func (r *PostgresPermissionRepo) FindByVehicleAndUser(ctx context.Context, vehicleID, userID string) (*domain.Permission, error) {
	permission := &domain.Permission{}
	err := r.db.QueryRowContext(ctx,
		`SELECT level, vehicle_id, user_id, granted_by, granted_at
		 FROM vehicle_permissions
		 WHERE vehicle_id = $1 AND user_id = $2`,
		vehicleID, userID,
	).Scan(
		&permission.Level, &permission.VehicleID, &permission.UserID,
		&permission.GrantedBy, &permission.GrantedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("権限の取得に失敗しました: %w", err)
	}

	return permission, nil
}

// ListByVehicleID は車両に付与された権限一覧を付与日時順で返す。
func (r *PostgresPermissionRepo) ListByVehicleID(ctx context.Context, vehicleID string) ([]*domain.Permission, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT level, vehicle_id, user_id, granted_by, granted_at
		 FROM vehicle_permissions
		 WHERE vehicle_id = $1
		 ORDER BY granted_at`,
		vehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("権限一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var permissions []*domain.Permission
	for rows.Next() {
		permission := &domain.Permission{}
		if err := rows.Scan(
			&permission.Level, &permission.VehicleID, &permission.UserID,
			&permission.GrantedBy, &permission.GrantedAt,
		); err != nil {
			return nil, fmt.Errorf("権限レコードのスキャンに失敗しました: %w", err)
		}
		permissions = append(permissions, permission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("権限一覧の走査に失敗しました: %w", err)
	}

	return permissions, nil
}

// Upsert は権限を冪等に登録する。
// UNIQUE(vehicle_id, user_id)制約を利用したINSERT ON CONFLICTで実装する。
func (r *PostgresPermissionRepo) Upsert(ctx context.Context, permission *domain.Permission) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicle_permissions (vehicle_id, user_id, level, granted_by, granted_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (vehicle_id, user_id) DO UPDATE SET
		     level = EXCLUDED.level,
		     granted_by = EXCLUDED.granted_by,
		     granted_at = EXCLUDED.granted_at`,
		permission.VehicleID, permission.UserID, permission.Level,
		permission.GrantedBy, permission.GrantedAt,
	)
	if err != nil {
		return fmt.Errorf("権限の登録に失敗しました: %w", err)
	}
	return nil
}

// DeleteByVehicleAndUser は車両IDとユーザーIDで権限を削除する。
func (r *PostgresPermissionRepo) DeleteByVehicleAndUser(ctx context.Context, vehicleID, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM vehicle_permissions WHERE vehicle_id = $1 AND user_id = $2`,
		vehicleID, userID,
	)
	if err != nil {
		return fmt.Errorf("権限の削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("permission not found: vehicle=%s user=%s", vehicleID, userID)
	}
	return nil
}

// DeleteByUserID は指定ユーザーに関連する全権限を削除する。
// 付与された権限と付与した権限の両方を削除する。
func (r *PostgresPermissionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM vehicle_permissions WHERE user_id = $1 OR granted_by = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("ユーザーの権限の削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ PermissionRepository = (*PostgresPermissionRepo)(nil)
