// Package fuelrecord は給油記録管理のドメインロジックを提供する。
package fuelrecord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/fuelog/internal/domain"
	"github.com/hitoshi/fuelog/internal/repository"
)

// RecordWithEconomy は給油記録と満タン法で算出した燃費を結合したドメインオブジェクト。
// FuelEconomyは満タン給油記録のうち直前の満タン給油記録が存在するものにのみ設定される。
type RecordWithEconomy struct {
	domain.FuelRecord
	FuelEconomy *float64 // km/L
}

// MetricsRecorder は給油記録関連のメトリクスを記録するインターフェース。
type MetricsRecorder interface {
	RecordFuelRecordCreated(vehicleID string)
	RecordEconomyCalculation()
}

// Service は給油記録管理のサービス層。
// 給油記録のCRUD操作と燃費計算、共有権限に基づくアクセス制御を提供する。
type Service struct {
	recordRepo  repository.FuelRecordRepository
	vehicleRepo repository.VehicleRepository
	permRepo    repository.PermissionRepository
	metrics     MetricsRecorder // nilの場合はメトリクスを記録しない
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	recordRepo repository.FuelRecordRepository,
	vehicleRepo repository.VehicleRepository,
	permRepo repository.PermissionRepository,
) *Service {
	return &Service{
		recordRepo:  recordRepo,
		vehicleRepo: vehicleRepo,
		permRepo:    permRepo,
	}
}

// WithMetrics はメトリクスレコーダーを設定したServiceを返す。
func (s *Service) WithMetrics(metrics MetricsRecorder) *Service {
	s.metrics = metrics
	return s
}

// CreateRecordInput は給油記録登録の入力。
type CreateRecordInput struct {
	Date           time.Time
	GasStationName string
	Odometer       float64
	FuelPrice      float64
	FuelAmount     float64
	IsFullTank     bool
}

// UpdateRecordInput は給油記録更新の入力。nilのフィールドは変更しない。
type UpdateRecordInput struct {
	Date           *time.Time
	GasStationName *string
	Odometer       *float64
	FuelPrice      *float64
	FuelAmount     *float64
	IsFullTank     *bool
}

// ListRecords は車両の給油記録一覧を燃費付きで給油日の昇順で返す。
// 燃費は満タン法で算出する。満タン給油記録について、直前の満タン給油記録からの
// 走行距離を給油量で割った値をkm/L単位で設定する。
func (s *Service) ListRecords(ctx context.Context, vehicleID, userID string) ([]RecordWithEconomy, error) {
	_, level, err := s.findVehicleWithLevel(ctx, vehicleID, userID)
	if err != nil {
		return nil, err
	}
	if level == "" {
		return nil, domain.NewVehicleNotFoundError(vehicleID)
	}

	records, err := s.recordRepo.ListByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("給油記録一覧の取得に失敗しました: %w", err)
	}

	results := make([]RecordWithEconomy, len(records))
	var prevFullTank *domain.FuelRecord
	for i, record := range records {
		results[i] = RecordWithEconomy{FuelRecord: *record}

		if !record.IsFullTank {
			continue
		}
		if prevFullTank != nil {
			economy := domain.CalculateFuelEconomy(*prevFullTank, *record)
			if economy.IsOk() {
				v := economy.Value()
				results[i].FuelEconomy = &v
				if s.metrics != nil {
					s.metrics.RecordEconomyCalculation()
				}
			}
		}
		prevFullTank = record
	}

	return results, nil
}

// GetRecord は指定IDの給油記録を取得する。閲覧権限が必要。
func (s *Service) GetRecord(ctx context.Context, recordID, userID string) (*domain.FuelRecord, error) {
	record, err := s.recordRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("給油記録の取得に失敗しました: %w", err)
	}
	if record == nil {
		return nil, domain.NewFuelRecordNotFoundError(recordID)
	}

	_, level, err := s.findVehicleWithLevel(ctx, record.VehicleID, userID)
	if err != nil {
		return nil, err
	}
	if level == "" {
		return nil, domain.NewFuelRecordNotFoundError(recordID)
	}

	return record, nil
}

// CreateRecord は給油記録を登録する。editor以上の権限が必要。
func (s *Service) CreateRecord(ctx context.Context, vehicleID, userID string, input CreateRecordInput) (*domain.FuelRecord, error) {
	_, level, err := s.findVehicleWithLevel(ctx, vehicleID, userID)
	if err != nil {
		return nil, err
	}
	if level == "" {
		return nil, domain.NewVehicleNotFoundError(vehicleID)
	}
	if !domain.CanEdit(domain.Permission{Level: level}) {
		return nil, domain.NewPermissionDeniedError()
	}

	result := domain.CreateFuelRecord(domain.CreateFuelRecordParams{
		ID:             uuid.New().String(),
		VehicleID:      vehicleID,
		Date:           input.Date,
		GasStationName: input.GasStationName,
		Odometer:       input.Odometer,
		FuelPrice:      input.FuelPrice,
		FuelAmount:     input.FuelAmount,
		IsFullTank:     input.IsFullTank,
	})
	if result.IsErr() {
		return nil, result.Err()
	}
	record := result.Value()

	if err := s.recordRepo.Create(ctx, &record); err != nil {
		return nil, fmt.Errorf("給油記録の作成に失敗しました: %w", err)
	}

	slog.Info("fuel record created",
		slog.String("record_id", record.ID),
		slog.String("vehicle_id", vehicleID),
		slog.Int("total_cost", record.TotalCost),
	)

	if s.metrics != nil {
		s.metrics.RecordFuelRecordCreated(vehicleID)
	}

	return &record, nil
}

// UpdateRecord は給油記録を更新する。editor以上の権限が必要。
// 合計金額は更新後の単価と給油量から再計算される。
func (s *Service) UpdateRecord(ctx context.Context, recordID, userID string, input UpdateRecordInput) (*domain.FuelRecord, error) {
	record, err := s.recordRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("給油記録の取得に失敗しました: %w", err)
	}
	if record == nil {
		return nil, domain.NewFuelRecordNotFoundError(recordID)
	}

	_, level, err := s.findVehicleWithLevel(ctx, record.VehicleID, userID)
	if err != nil {
		return nil, err
	}
	if level == "" {
		return nil, domain.NewFuelRecordNotFoundError(recordID)
	}
	if !domain.CanEdit(domain.Permission{Level: level}) {
		return nil, domain.NewPermissionDeniedError()
	}

	result := domain.UpdateFuelRecord(*record, domain.UpdateFuelRecordParams{
		Date:           input.Date,
		GasStationName: input.GasStationName,
		Odometer:       input.Odometer,
		FuelPrice:      input.FuelPrice,
		FuelAmount:     input.FuelAmount,
		IsFullTank:     input.IsFullTank,
	})
	if result.IsErr() {
		return nil, result.Err()
	}
	updated := result.Value()

	if err := s.recordRepo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("給油記録の更新に失敗しました: %w", err)
	}

	return &updated, nil
}

// DeleteRecord は給油記録を削除する。admin権限が必要。
func (s *Service) DeleteRecord(ctx context.Context, recordID, userID string) error {
	record, err := s.recordRepo.FindByID(ctx, recordID)
	if err != nil {
		return fmt.Errorf("給油記録の取得に失敗しました: %w", err)
	}
	if record == nil {
		return domain.NewFuelRecordNotFoundError(recordID)
	}

	_, level, err := s.findVehicleWithLevel(ctx, record.VehicleID, userID)
	if err != nil {
		return err
	}
	if level == "" {
		return domain.NewFuelRecordNotFoundError(recordID)
	}
	if !domain.CanDelete(domain.Permission{Level: level}) {
		return domain.NewPermissionDeniedError()
	}

	if err := s.recordRepo.DeleteByID(ctx, recordID); err != nil {
		return fmt.Errorf("給油記録の削除に失敗しました: %w", err)
	}

	slog.Info("fuel record deleted",
		slog.String("record_id", recordID),
		slog.String("user_id", userID),
	)

	return nil
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
