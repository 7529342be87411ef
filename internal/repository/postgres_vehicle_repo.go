package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/fuelog/internal/domain"
)

// PostgresVehicleRepo はPostgreSQLを使用した車両リポジトリ。
type PostgresVehicleRepo struct {
	db *sql.DB
}

// NewPostgresVehicleRepo はPostgresVehicleRepoを生成する。
func NewPostgresVehicleRepo(db *sql.DB) *PostgresVehicleRepo {
	return &PostgresVehicleRepo{db: db}
}

// FindByID は指定IDの車両を取得する。見つからない場合はnilを返す。
func (r *PostgresVehicleRepo) FindByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, manufacturer, model, fuel_type, memo, created_at, updated_at
		 FROM vehicles WHERE id = $1`,
		id,
	).Scan(
		&vehicle.ID, &vehicle.OwnerID, &vehicle.Manufacturer, &vehicle.Model,
		&vehicle.FuelType, &vehicle.Memo, &vehicle.CreatedAt, &vehicle.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("車両の取得に失敗しました: %w", err)
	}

	return vehicle, nil
}

// ListByOwnerID は指定ユーザーが所有する車両一覧を作成日時順で返す。
func (r *PostgresVehicleRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, manufacturer, model, fuel_type, memo, created_at, updated_at
		 FROM vehicles
		 WHERE owner_id = $1
		 ORDER BY created_at`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("車両一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanVehicles(rows)
}

// ListAccessibleByUserID は指定ユーザーがアクセス可能な車両一覧を返す。
// 所有する車両と権限を付与された車両の両方を含む。
func (r *PostgresVehicleRepo) ListAccessibleByUserID(ctx context.Context, userID string) ([]*domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT v.id, v.owner_id, v.manufacturer, v.model, v.fuel_type, v.memo, v.created_at, v.updated_at
		 FROM vehicles v
		 WHERE v.owner_id = $1
		    OR EXISTS (
		        SELECT 1 FROM vehicle_permissions p
		        WHERE p.vehicle_id = v.id AND p.user_id = $1
		    )
		 ORDER BY v.created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("アクセス可能な車両一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanVehicles(rows)
}

// Create は車両を作成する。
func (r *PostgresVehicleRepo) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicles (id, owner_id, manufacturer, model, fuel_type, memo, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		vehicle.ID, vehicle.OwnerID, vehicle.Manufacturer, vehicle.Model,
		vehicle.FuelType, vehicle.Memo, vehicle.CreatedAt, vehicle.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("車両の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は車両情報を更新する。
func (r *PostgresVehicleRepo) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET
		    manufacturer = $2, model = $3, fuel_type = $4, memo = $5, updated_at = $6
		 WHERE id = $1`,
		vehicle.ID, vehicle.Manufacturer, vehicle.Model,
		vehicle.FuelType, vehicle.Memo, vehicle.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("車両の更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("vehicle not found: %s", vehicle.ID)
	}
	return nil
}

// DeleteByID は指定IDの車両を削除する。
// 関連するfuel_records、vehicle_permissionsはCASCADE削除される。
func (r *PostgresVehicleRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM vehicles WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("車両の削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("vehicle not found: %s", id)
	}
	return nil
}

// DeleteByOwnerID は指定ユーザーが所有する全車両を削除する。
func (r *PostgresVehicleRepo) DeleteByOwnerID(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM vehicles WHERE owner_id = $1`,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("所有車両の削除に失敗しました: %w", err)
	}
	return nil
}

// scanVehicles は複数行の車両レコードをスキャンする。
func scanVehicles(rows *sql.Rows) ([]*domain.Vehicle, error) {
	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle := &domain.Vehicle{}
		if err := rows.Scan(
			&vehicle.ID, &vehicle.OwnerID, &vehicle.Manufacturer, &vehicle.Model,
			&vehicle.FuelType, &vehicle.Memo, &vehicle.CreatedAt, &vehicle.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("車両レコードのスキャンに失敗しました: %w", err)
		}
		vehicles = append(vehicles, vehicle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("車両一覧の走査に失敗しました: %w", err)
	}
	return vehicles, nil
}

// compile-time interface check
var _ VehicleRepository = (*PostgresVehicleRepo)(nil)
