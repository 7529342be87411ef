package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// FuelType は車両の燃料タイプを表す。
type FuelType string

const (
	// FuelTypeGasoline はガソリン車。
	FuelTypeGasoline FuelType = "gasoline"
	// FuelTypeDiesel はディーゼル車。
	FuelTypeDiesel FuelType = "diesel"
	// FuelTypeHybrid はハイブリッド車。
	FuelTypeHybrid FuelType = "hybrid"
	// FuelTypePluginHybrid はプラグインハイブリッド車。
	FuelTypePluginHybrid FuelType = "plugin_hybrid"
	// FuelTypeElectric は電気自動車。
	FuelTypeElectric FuelType = "electric"
)

// Valid は定義済みの燃料タイプかどうかを返す。
func (t FuelType) Valid() bool {
	switch t {
	case FuelTypeGasoline, FuelTypeDiesel, FuelTypeHybrid, FuelTypePluginHybrid, FuelTypeElectric:
		return true
	}
	return false
}

// Vehicle は登録車両を表すイミュータブルなエンティティ。
// ID・OwnerID・CreatedAtは生成後に変更できない。
type Vehicle struct {
	ID           string
	OwnerID      string
	Manufacturer string
	Model        string
	FuelType     FuelType
	Memo         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateVehicleParams は車両生成の入力パラメータ。
// Memoは省略可能で、省略時は空文字となる。
type CreateVehicleParams struct {
	ID           string
	OwnerID      string
	Manufacturer string
	Model        string
	FuelType     FuelType
	Memo         string
	CreatedAt    *time.Time
	UpdatedAt    *time.Time
}

// UpdateVehicleParams は車両更新の入力パラメータ。
// nilのフィールドは変更しない。Memoに空文字を明示指定した場合はメモを消去する。
type UpdateVehicleParams struct {
	Manufacturer *string
	Model        *string
	FuelType     *FuelType
	Memo         *string
}

// 車両検証のエラーセンチネル。
var (
	ErrVehicleInvalidID           = &ValidationError{Code: "VEHICLE_INVALID_ID", Message: "車両IDが無効です"}
	ErrVehicleInvalidOwnerID      = &ValidationError{Code: "VEHICLE_INVALID_OWNER_ID", Message: "所有者IDが無効です"}
	ErrVehicleInvalidManufacturer = &ValidationError{Code: "VEHICLE_INVALID_MANUFACTURER", Message: "メーカー名が無効です"}
	ErrVehicleInvalidModel        = &ValidationError{Code: "VEHICLE_INVALID_MODEL", Message: "車種が無効です"}
	ErrVehicleInvalidFuelType     = &ValidationError{Code: "VEHICLE_INVALID_FUEL_TYPE", Message: "燃料タイプが無効です"}
	ErrVehicleManufacturerTooLong = &ValidationError{Code: "VEHICLE_MANUFACTURER_TOO_LONG", Message: "メーカー名は50文字以内で入力してください"}
	ErrVehicleModelTooLong        = &ValidationError{Code: "VEHICLE_MODEL_TOO_LONG", Message: "車種は100文字以内で入力してください"}
	ErrVehicleMemoTooLong         = &ValidationError{Code: "VEHICLE_MEMO_TOO_LONG", Message: "メモは500文字以内で入力してください"}
)

const (
	// MaxManufacturerLength はメーカー名の最大文字数。
	MaxManufacturerLength = 50
	// MaxModelLength は車種名の最大文字数。
	MaxModelLength = 100
	// MaxMemoLength はメモの最大文字数。
	MaxMemoLength = 500
)

// CreateVehicle は入力を検証し、正規化済みのVehicleを生成する。
// 検証は定義順に実行され、最初の失敗で打ち切る。
func CreateVehicle(params CreateVehicleParams) Result[Vehicle] {
	if strings.TrimSpace(params.ID) == "" {
		return Err[Vehicle](ErrVehicleInvalidID)
	}

	if strings.TrimSpace(params.OwnerID) == "" {
		return Err[Vehicle](ErrVehicleInvalidOwnerID)
	}

	if strings.TrimSpace(params.Manufacturer) == "" {
		return Err[Vehicle](ErrVehicleInvalidManufacturer)
	}

	if utf8.RuneCountInString(params.Manufacturer) > MaxManufacturerLength {
		return Err[Vehicle](ErrVehicleManufacturerTooLong)
	}

	if strings.TrimSpace(params.Model) == "" {
		return Err[Vehicle](ErrVehicleInvalidModel)
	}

	if utf8.RuneCountInString(params.Model) > MaxModelLength {
		return Err[Vehicle](ErrVehicleModelTooLong)
	}

	if !params.FuelType.Valid() {
		return Err[Vehicle](ErrVehicleInvalidFuelType)
	}

	if utf8.RuneCountInString(params.Memo) > MaxMemoLength {
		return Err[Vehicle](ErrVehicleMemoTooLong)
	}

	now := timeNow()
	vehicle := Vehicle{
		ID:           strings.TrimSpace(params.ID),
		OwnerID:      strings.TrimSpace(params.OwnerID),
		Manufacturer: strings.TrimSpace(params.Manufacturer),
		Model:        strings.TrimSpace(params.Model),
		FuelType:     params.FuelType,
		Memo:         strings.TrimSpace(params.Memo),
		CreatedAt:    timestampOr(params.CreatedAt, now),
		UpdatedAt:    timestampOr(params.UpdatedAt, now),
	}

	return Ok(vehicle)
}

// UpdateVehicle は指定されたフィールドのみを検証・適用した新しいVehicleを返す。
// 元のVehicleは変更しない。変更がなくてもUpdatedAtは常に現在時刻に更新される。
func UpdateVehicle(vehicle Vehicle, params UpdateVehicleParams) Result[Vehicle] {
	updated := vehicle

	if params.Manufacturer != nil {
		if strings.TrimSpace(*params.Manufacturer) == "" {
			return Err[Vehicle](ErrVehicleInvalidManufacturer)
		}
		if utf8.RuneCountInString(*params.Manufacturer) > MaxManufacturerLength {
			return Err[Vehicle](ErrVehicleManufacturerTooLong)
		}
		updated.Manufacturer = strings.TrimSpace(*params.Manufacturer)
	}

	if params.Model != nil {
		if strings.TrimSpace(*params.Model) == "" {
			return Err[Vehicle](ErrVehicleInvalidModel)
		}
		if utf8.RuneCountInString(*params.Model) > MaxModelLength {
			return Err[Vehicle](ErrVehicleModelTooLong)
		}
		updated.Model = strings.TrimSpace(*params.Model)
	}

	if params.FuelType != nil {
		if !params.FuelType.Valid() {
			return Err[Vehicle](ErrVehicleInvalidFuelType)
		}
		updated.FuelType = *params.FuelType
	}

	if params.Memo != nil {
		if utf8.RuneCountInString(*params.Memo) > MaxMemoLength {
			return Err[Vehicle](ErrVehicleMemoTooLong)
		}
		updated.Memo = strings.TrimSpace(*params.Memo)
	}

	updated.UpdatedAt = timeNow()

	return Ok(updated)
}

// VehicleDisplayName は「メーカー名 車種」形式の表示名を返す。
func VehicleDisplayName(vehicle Vehicle) string {
	return vehicle.Manufacturer + " " + vehicle.Model
}

// fuelTypeDisplayNames は燃料タイプの表示名テーブル。
// 燃料タイプを追加した場合はここにも追加すること。
var fuelTypeDisplayNames = map[FuelType]string{
	FuelTypeGasoline:     "ガソリン",
	FuelTypeDiesel:       "軽油",
	FuelTypeHybrid:       "ハイブリッド",
	FuelTypePluginHybrid: "プラグインハイブリッド",
	FuelTypeElectric:     "電気",
}

// FuelTypeDisplayName は燃料タイプの日本語表示名を返す。
func FuelTypeDisplayName(fuelType FuelType) string {
	return fuelTypeDisplayNames[fuelType]
}
