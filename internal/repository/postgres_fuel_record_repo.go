package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/fuelog/internal/domain"
)

// PostgresFuelRecordRepo はPostgreSQLを使用した給油記録リポジトリ。
type PostgresFuelRecordRepo struct {
	db *sql.DB
}

// NewPostgresFuelRecordRepo はPostgresFuelRecordRepoを生成する。
func NewPostgresFuelRecordRepo(db *sql.DB) *PostgresFuelRecordRepo {
	return &PostgresFuelRecordRepo{db: db}
}

// FindByID は指定IDの給油記録を取得する。見つからない場合はnilを返す。
func (r *PostgresFuelRecordRepo) FindByID(ctx context.Context, id string) (*domain.FuelRecord, error) {
	record := &domain.FuelRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, vehicle_id, date, gas_station_name, odometer, fuel_price, fuel_amount,
		        total_cost, is_full_tank, created_at, updated_at
		 FROM fuel_records WHERE id = $1`,
		id,
	).Scan(
		&record.ID, &record.VehicleID, &record.Date, &record.GasStationName,
		&record.Odometer, &record.FuelPrice, &record.FuelAmount,
		&record.TotalCost, &record.IsFullTank, &record.CreatedAt, &record.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("給油記録の取得に失敗しました: %w", err)
	}

	return record, nil
}

// ListByVehicleID は車両の給油記録一覧を給油日の昇順で返す。
// 同一日時の記録は作成日時の昇順で並べる。
func (r *PostgresFuelRecordRepo) ListByVehicleID(ctx context.Context, vehicleID string) ([]*domain.FuelRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, vehicle_id, date, gas_station_name, odometer, fuel_price, fuel_amount,
		        total_cost, is_full_tank, created_at, updated_at
		 FROM fuel_records
		 WHERE vehicle_id = $1
		 ORDER BY date, created_at`,
		vehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("給油記録一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var records []*domain.FuelRecord
	for rows.Next() {
		record := &domain.FuelRecord{}
		if err := rows.Scan(
			&record.ID, &record.VehicleID, &record.Date, &record.GasStationName,
			&record.Odometer, &record.FuelPrice, &record.FuelAmount,
			&record.TotalCost, &record.IsFullTank, &record.CreatedAt, &record.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("給油記録のスキャンに失敗しました: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("給油記録一覧の走査に失敗しました: %w", err)
	}

	return records, nil
}

// Create は給油記録を作成する。
func (r *PostgresFuelRecordRepo) Create(ctx context.Context, record *domain.FuelRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO fuel_records
		    (id, vehicle_id, date, gas_station_name, odometer, fuel_price, fuel_amount,
		     total_cost, is_full_tank, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		record.ID, record.VehicleID, record.Date, record.GasStationName,
		record.Odometer, record.FuelPrice, record.FuelAmount,
		record.TotalCost, record.IsFullTank, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("給油記録の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は給油記録を更新する。
func (r *PostgresFuelRecordRepo) Update(ctx context.Context, record *domain.FuelRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE fuel_records SET
		    date = $2, gas_station_name = $3, odometer = $4, fuel_price = $5,
		    fuel_amount = $6, total_cost = $7, is_full_tank = $8, updated_at = $9
		 WHERE id = $1`,
		record.ID, record.Date, record.GasStationName, record.Odometer,
		record.FuelPrice, record.FuelAmount, record.TotalCost,
		record.IsFullTank, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("給油記録の更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("fuel record not found: %s", record.ID)
	}
	return nil
}

// DeleteByID は指定IDの給油記録を削除する。
func (r *PostgresFuelRecordRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM fuel_records WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("給油記録の削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("fuel record not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ FuelRecordRepository = (*PostgresFuelRecordRepo)(nil)
