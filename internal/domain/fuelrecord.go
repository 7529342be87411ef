package domain

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// FuelRecord は1回の給油を表すイミュータブルなエンティティ。
// TotalCostはFuelPrice×FuelAmountから常に導出され、直接設定できない。
type FuelRecord struct {
	ID             string
	VehicleID      string
	Date           time.Time
	GasStationName string
	Odometer       int
	FuelPrice      float64
	FuelAmount     float64
	TotalCost      int
	IsFullTank     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateFuelRecordParams は給油記録生成の入力パラメータ。
// Odometerは小数を受け付けるが、切り捨てて整数として保存される。
type CreateFuelRecordParams struct {
	ID             string
	VehicleID      string
	Date           time.Time
	GasStationName string
	Odometer       float64
	FuelPrice      float64
	FuelAmount     float64
	IsFullTank     bool
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
}

// UpdateFuelRecordParams は給油記録更新の入力パラメータ。
// nilのフィールドは変更しない。TotalCostは更新後の価格×量から再計算される。
type UpdateFuelRecordParams struct {
	Date           *time.Time
	GasStationName *string
	Odometer       *float64
	FuelPrice      *float64
	FuelAmount     *float64
	IsFullTank     *bool
}

// 給油記録検証のエラーセンチネル。
var (
	ErrFuelRecordInvalidID          = &ValidationError{Code: "FUEL_RECORD_INVALID_ID", Message: "給油記録IDが無効です"}
	ErrFuelRecordInvalidVehicleID   = &ValidationError{Code: "FUEL_RECORD_INVALID_VEHICLE_ID", Message: "車両IDが無効です"}
	ErrFuelRecordInvalidDate        = &ValidationError{Code: "FUEL_RECORD_INVALID_DATE", Message: "日時が無効です"}
	ErrFuelRecordFutureDate         = &ValidationError{Code: "FUEL_RECORD_FUTURE_DATE", Message: "未来の日時は指定できません"}
	ErrFuelRecordInvalidStationName = &ValidationError{Code: "FUEL_RECORD_INVALID_STATION_NAME", Message: "ガソリンスタンド名が無効です"}
	ErrFuelRecordStationNameTooLong = &ValidationError{Code: "FUEL_RECORD_STATION_NAME_TOO_LONG", Message: "ガソリンスタンド名は100文字以内で入力してください"}
	ErrFuelRecordInvalidOdometer    = &ValidationError{Code: "FUEL_RECORD_INVALID_ODOMETER", Message: "走行距離が無効です"}
	ErrFuelRecordOdometerTooLow     = &ValidationError{Code: "FUEL_RECORD_ODOMETER_TOO_LOW", Message: "走行距離は0以上の値を入力してください"}
	ErrFuelRecordOdometerTooHigh    = &ValidationError{Code: "FUEL_RECORD_ODOMETER_TOO_HIGH", Message: "走行距離が大きすぎます"}
	ErrFuelRecordInvalidFuelPrice   = &ValidationError{Code: "FUEL_RECORD_INVALID_FUEL_PRICE", Message: "燃料単価が無効です"}
	ErrFuelRecordFuelPriceTooLow    = &ValidationError{Code: "FUEL_RECORD_FUEL_PRICE_TOO_LOW", Message: "燃料単価は0より大きい値を入力してください"}
	ErrFuelRecordFuelPriceTooHigh   = &ValidationError{Code: "FUEL_RECORD_FUEL_PRICE_TOO_HIGH", Message: "燃料単価が大きすぎます"}
	ErrFuelRecordInvalidFuelAmount  = &ValidationError{Code: "FUEL_RECORD_INVALID_FUEL_AMOUNT", Message: "給油量が無効です"}
	ErrFuelRecordFuelAmountTooLow   = &ValidationError{Code: "FUEL_RECORD_FUEL_AMOUNT_TOO_LOW", Message: "給油量は0より大きい値を入力してください"}
	ErrFuelRecordFuelAmountTooHigh  = &ValidationError{Code: "FUEL_RECORD_FUEL_AMOUNT_TOO_HIGH", Message: "給油量が大きすぎます"}

	// 燃費計算のエラーセンチネル。
	ErrEconomyFullTankRequired = &ValidationError{Code: "ECONOMY_FULL_TANK_REQUIRED", Message: "燃費計算には満タン給油記録が必要です"}
	ErrEconomyInvalidDistance  = &ValidationError{Code: "ECONOMY_INVALID_DISTANCE", Message: "走行距離が正しくありません"}
)

const (
	// MaxGasStationNameLength はガソリンスタンド名の最大文字数。
	MaxGasStationNameLength = 100
	// MaxOdometer は走行距離の最大値（km）。
	MaxOdometer = 9999999
	// MaxFuelPrice は燃料単価の最大値（円/L）。
	MaxFuelPrice = 999.99
	// MaxFuelAmount は給油量の最大値（L）。
	MaxFuelAmount = 999.99
)

// CreateFuelRecord は入力を検証し、正規化済みのFuelRecordを生成する。
// 検証は定義順に実行され、最初の失敗で打ち切る。
// 日付は検証時点の現在時刻と比較し、厳密に未来の場合のみ拒否する。
func CreateFuelRecord(params CreateFuelRecordParams) Result[FuelRecord] {
	if strings.TrimSpace(params.ID) == "" {
		return Err[FuelRecord](ErrFuelRecordInvalidID)
	}

	if strings.TrimSpace(params.VehicleID) == "" {
		return Err[FuelRecord](ErrFuelRecordInvalidVehicleID)
	}

	if params.Date.IsZero() {
		return Err[FuelRecord](ErrFuelRecordInvalidDate)
	}

	if params.Date.After(timeNow()) {
		return Err[FuelRecord](ErrFuelRecordFutureDate)
	}

	if strings.TrimSpace(params.GasStationName) == "" {
		return Err[FuelRecord](ErrFuelRecordInvalidStationName)
	}

	if utf8.RuneCountInString(params.GasStationName) > MaxGasStationNameLength {
		return Err[FuelRecord](ErrFuelRecordStationNameTooLong)
	}

	if math.IsNaN(params.Odometer) || math.IsInf(params.Odometer, 0) {
		return Err[FuelRecord](ErrFuelRecordInvalidOdometer)
	}

	if params.Odometer < 0 {
		return Err[FuelRecord](ErrFuelRecordOdometerTooLow)
	}

	if params.Odometer > MaxOdometer {
		return Err[FuelRecord](ErrFuelRecordOdometerTooHigh)
	}

	if math.IsNaN(params.FuelPrice) || math.IsInf(params.FuelPrice, 0) {
		return Err[FuelRecord](ErrFuelRecordInvalidFuelPrice)
	}

	if params.FuelPrice <= 0 {
		return Err[FuelRecord](ErrFuelRecordFuelPriceTooLow)
	}

	if params.FuelPrice > MaxFuelPrice {
		return Err[FuelRecord](ErrFuelRecordFuelPriceTooHigh)
	}

	if math.IsNaN(params.FuelAmount) || math.IsInf(params.FuelAmount, 0) {
		return Err[FuelRecord](ErrFuelRecordInvalidFuelAmount)
	}

	if params.FuelAmount <= 0 {
		return Err[FuelRecord](ErrFuelRecordFuelAmountTooLow)
	}

	if params.FuelAmount > MaxFuelAmount {
		return Err[FuelRecord](ErrFuelRecordFuelAmountTooHigh)
	}

	now := timeNow()
	roundedPrice := roundTo2(params.FuelPrice)
	roundedAmount := roundTo2(params.FuelAmount)

	record := FuelRecord{
		ID:             strings.TrimSpace(params.ID),
		VehicleID:      strings.TrimSpace(params.VehicleID),
		Date:           params.Date,
		GasStationName: strings.TrimSpace(params.GasStationName),
		Odometer:       int(math.Floor(params.Odometer)),
		FuelPrice:      roundedPrice,
		FuelAmount:     roundedAmount,
		TotalCost:      int(math.Round(roundedPrice * roundedAmount)),
		IsFullTank:     params.IsFullTank,
		CreatedAt:      timestampOr(params.CreatedAt, now),
		UpdatedAt:      timestampOr(params.UpdatedAt, now),
	}

	return Ok(record)
}

// UpdateFuelRecord は指定されたフィールドのみを検証・適用した新しいFuelRecordを返す。
// 元のFuelRecordは変更しない。価格または給油量が変わった場合、TotalCostは再計算される。
// 変更がなくてもUpdatedAtは常に現在時刻に更新される。
func UpdateFuelRecord(record FuelRecord, params UpdateFuelRecordParams) Result[FuelRecord] {
	updated := record

	if params.Date != nil {
		if params.Date.IsZero() {
			return Err[FuelRecord](ErrFuelRecordInvalidDate)
		}
		if params.Date.After(timeNow()) {
			return Err[FuelRecord](ErrFuelRecordFutureDate)
		}
		updated.Date = *params.Date
	}

	if params.GasStationName != nil {
		if strings.TrimSpace(*params.GasStationName) == "" {
			return Err[FuelRecord](ErrFuelRecordInvalidStationName)
		}
		if utf8.RuneCountInString(*params.GasStationName) > MaxGasStationNameLength {
			return Err[FuelRecord](ErrFuelRecordStationNameTooLong)
		}
		updated.GasStationName = strings.TrimSpace(*params.GasStationName)
	}

	if params.Odometer != nil {
		odometer := *params.Odometer
		if math.IsNaN(odometer) || math.IsInf(odometer, 0) {
			return Err[FuelRecord](ErrFuelRecordInvalidOdometer)
		}
		if odometer < 0 {
			return Err[FuelRecord](ErrFuelRecordOdometerTooLow)
		}
		if odometer > MaxOdometer {
			return Err[FuelRecord](ErrFuelRecordOdometerTooHigh)
		}
		updated.Odometer = int(math.Floor(odometer))
	}

	if params.FuelPrice != nil {
		price := *params.FuelPrice
		if math.IsNaN(price) || math.IsInf(price, 0) {
			return Err[FuelRecord](ErrFuelRecordInvalidFuelPrice)
		}
		if price <= 0 {
			return Err[FuelRecord](ErrFuelRecordFuelPriceTooLow)
		}
		if price > MaxFuelPrice {
			return Err[FuelRecord](ErrFuelRecordFuelPriceTooHigh)
		}
		updated.FuelPrice = roundTo2(price)
	}

	if params.FuelAmount != nil {
		amount := *params.FuelAmount
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			return Err[FuelRecord](ErrFuelRecordInvalidFuelAmount)
		}
		if amount <= 0 {
			return Err[FuelRecord](ErrFuelRecordFuelAmountTooLow)
		}
		if amount > MaxFuelAmount {
			return Err[FuelRecord](ErrFuelRecordFuelAmountTooHigh)
		}
		updated.FuelAmount = roundTo2(amount)
	}

	if params.IsFullTank != nil {
		updated.IsFullTank = *params.IsFullTank
	}

	// 価格または給油量の変更を問わず、常に現在の値から総額を再計算する
	updated.TotalCost = int(math.Round(updated.FuelPrice * updated.FuelAmount))
	updated.UpdatedAt = timeNow()

	return Ok(updated)
}

// CalculateFuelEconomy は2つの給油記録から燃費（km/L）を計算する。
// 燃費は満タン間の区間でのみ意味を持つため、currentが満タン給油でない場合は失敗する。
// 戻り値は小数第2位に丸められる。記録の取得・順序付けは呼び出し側の責務。
func CalculateFuelEconomy(previous, current FuelRecord) Result[float64] {
	if !current.IsFullTank {
		return Err[float64](ErrEconomyFullTankRequired)
	}

	distance := current.Odometer - previous.Odometer
	if distance <= 0 {
		return Err[float64](ErrEconomyInvalidDistance)
	}

	economy := float64(distance) / current.FuelAmount
	return Ok(roundTo2(economy))
}
