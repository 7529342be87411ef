package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validVehicleParams() CreateVehicleParams {
	return CreateVehicleParams{
		ID:           "vehicle-1",
		OwnerID:      "user-1",
		Manufacturer: "トヨタ",
		Model:        "カローラ",
		FuelType:     FuelTypeGasoline,
	}
}

// TestCreateVehicle_Success は正常系の生成と正規化を検証する。
func TestCreateVehicle_Success(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	withFixedTime(t, now)

	params := validVehicleParams()
	params.Manufacturer = "  トヨタ  "
	params.Memo = "  通勤用  "

	r := CreateVehicle(params)
	if r.IsErr() {
		t.Fatalf("unexpected error: %v", r.Err())
	}

	vehicle := r.Value()
	if vehicle.Manufacturer != "トヨタ" {
		t.Errorf("Manufacturer = %q, want trimmed %q", vehicle.Manufacturer, "トヨタ")
	}
	if vehicle.Memo != "通勤用" {
		t.Errorf("Memo = %q, want trimmed %q", vehicle.Memo, "通勤用")
	}
	if !vehicle.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", vehicle.CreatedAt, now)
	}
}

// TestCreateVehicle_MemoDefault はメモ省略時に空文字となることを検証する。
func TestCreateVehicle_MemoDefault(t *testing.T) {
	vehicle := CreateVehicle(validVehicleParams()).Unwrap()
	if vehicle.Memo != "" {
		t.Errorf("Memo = %q, want empty string", vehicle.Memo)
	}
}

// TestCreateVehicle_ValidationOrder は定義順の検証と最初の失敗での打ち切りを検証する。
func TestCreateVehicle_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *CreateVehicleParams)
		wantErr *ValidationError
	}{
		{name: "ID空", mutate: func(p *CreateVehicleParams) { p.ID = " " }, wantErr: ErrVehicleInvalidID},
		{name: "所有者ID空", mutate: func(p *CreateVehicleParams) { p.OwnerID = "" }, wantErr: ErrVehicleInvalidOwnerID},
		{name: "メーカー名空", mutate: func(p *CreateVehicleParams) { p.Manufacturer = "" }, wantErr: ErrVehicleInvalidManufacturer},
		{name: "メーカー名51文字", mutate: func(p *CreateVehicleParams) { p.Manufacturer = strings.Repeat("あ", 51) }, wantErr: ErrVehicleManufacturerTooLong},
		{name: "車種空", mutate: func(p *CreateVehicleParams) { p.Model = "  " }, wantErr: ErrVehicleInvalidModel},
		{name: "車種101文字", mutate: func(p *CreateVehicleParams) { p.Model = strings.Repeat("a", 101) }, wantErr: ErrVehicleModelTooLong},
		{name: "燃料タイプ不正", mutate: func(p *CreateVehicleParams) { p.FuelType = "rocket_fuel" }, wantErr: ErrVehicleInvalidFuelType},
		{name: "燃料タイプ空", mutate: func(p *CreateVehicleParams) { p.FuelType = "" }, wantErr: ErrVehicleInvalidFuelType},
		{name: "メモ501文字", mutate: func(p *CreateVehicleParams) { p.Memo = strings.Repeat("あ", 501) }, wantErr: ErrVehicleMemoTooLong},
		// メーカー名と車種が両方不正の場合、先に検証されるメーカー名のエラーが返る
		{name: "複数不正は最初のエラー", mutate: func(p *CreateVehicleParams) { p.Manufacturer = ""; p.Model = "" }, wantErr: ErrVehicleInvalidManufacturer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validVehicleParams()
			tt.mutate(&params)
			r := CreateVehicle(params)
			if !errors.Is(r.Err(), tt.wantErr) {
				t.Errorf("err = %v, want %v", r.Err(), tt.wantErr)
			}
		})
	}
}

// TestCreateVehicle_LengthBoundaries は各フィールドの境界値を検証する。
func TestCreateVehicle_LengthBoundaries(t *testing.T) {
	params := validVehicleParams()
	params.Manufacturer = strings.Repeat("あ", MaxManufacturerLength)
	params.Model = strings.Repeat("い", MaxModelLength)
	params.Memo = strings.Repeat("う", MaxMemoLength)

	if r := CreateVehicle(params); r.IsErr() {
		t.Errorf("boundary lengths should pass, got %v", r.Err())
	}
}

// TestUpdateVehicle_PartialUpdate は指定フィールドのみの更新を検証する。
func TestUpdateVehicle_PartialUpdate(t *testing.T) {
	withTickingTime(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	vehicle := CreateVehicle(validVehicleParams()).Unwrap()

	hybrid := FuelTypeHybrid
	r := UpdateVehicle(vehicle, UpdateVehicleParams{
		Model:    strPtr("プリウス"),
		FuelType: &hybrid,
	})
	if r.IsErr() {
		t.Fatalf("unexpected error: %v", r.Err())
	}

	updated := r.Value()
	if updated.Model != "プリウス" {
		t.Errorf("Model = %q, want %q", updated.Model, "プリウス")
	}
	if updated.FuelType != FuelTypeHybrid {
		t.Errorf("FuelType = %q, want %q", updated.FuelType, FuelTypeHybrid)
	}
	if updated.Manufacturer != vehicle.Manufacturer {
		t.Error("Manufacturer should be unchanged")
	}
	if updated.ID != vehicle.ID || updated.OwnerID != vehicle.OwnerID {
		t.Error("ID and OwnerID should be immutable")
	}
	if !updated.CreatedAt.Equal(vehicle.CreatedAt) {
		t.Error("CreatedAt should be immutable")
	}
	if !updated.UpdatedAt.After(vehicle.UpdatedAt) {
		t.Error("UpdatedAt should advance")
	}
}

// TestUpdateVehicle_ClearMemo は空文字の明示指定でメモが消去されることを検証する。
// 「指定なし」と「空文字を指定」は区別される。
func TestUpdateVehicle_ClearMemo(t *testing.T) {
	params := validVehicleParams()
	params.Memo = "消されるメモ"
	vehicle := CreateVehicle(params).Unwrap()

	updated := UpdateVehicle(vehicle, UpdateVehicleParams{Memo: strPtr("")}).Unwrap()
	if updated.Memo != "" {
		t.Errorf("Memo = %q, want cleared", updated.Memo)
	}

	// nilの場合は変更なし
	kept := UpdateVehicle(vehicle, UpdateVehicleParams{}).Unwrap()
	if kept.Memo != "消されるメモ" {
		t.Errorf("Memo = %q, want unchanged", kept.Memo)
	}
}

// TestUpdateVehicle_EmptyUpdate は空更新でもUpdatedAtのみ進むことを検証する。
func TestUpdateVehicle_EmptyUpdate(t *testing.T) {
	withTickingTime(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	vehicle := CreateVehicle(validVehicleParams()).Unwrap()
	updated := UpdateVehicle(vehicle, UpdateVehicleParams{}).Unwrap()

	if updated.Manufacturer != vehicle.Manufacturer || updated.Model != vehicle.Model ||
		updated.FuelType != vehicle.FuelType || updated.Memo != vehicle.Memo {
		t.Error("empty update should not change fields")
	}
	if !updated.UpdatedAt.After(vehicle.UpdatedAt) {
		t.Error("UpdatedAt should advance even for empty update")
	}
}

// TestUpdateVehicle_Validation は更新時のフィールド検証を検証する。
func TestUpdateVehicle_Validation(t *testing.T) {
	vehicle := CreateVehicle(validVehicleParams()).Unwrap()
	bad := FuelType("nuclear")

	tests := []struct {
		name    string
		params  UpdateVehicleParams
		wantErr *ValidationError
	}{
		{name: "メーカー名空", params: UpdateVehicleParams{Manufacturer: strPtr(" ")}, wantErr: ErrVehicleInvalidManufacturer},
		{name: "メーカー名51文字", params: UpdateVehicleParams{Manufacturer: strPtr(strings.Repeat("a", 51))}, wantErr: ErrVehicleManufacturerTooLong},
		{name: "車種空", params: UpdateVehicleParams{Model: strPtr("")}, wantErr: ErrVehicleInvalidModel},
		{name: "燃料タイプ不正", params: UpdateVehicleParams{FuelType: &bad}, wantErr: ErrVehicleInvalidFuelType},
		{name: "メモ501文字", params: UpdateVehicleParams{Memo: strPtr(strings.Repeat("a", 501))}, wantErr: ErrVehicleMemoTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := UpdateVehicle(vehicle, tt.params)
			if !errors.Is(r.Err(), tt.wantErr) {
				t.Errorf("err = %v, want %v", r.Err(), tt.wantErr)
			}
		})
	}
}

// TestVehicleDisplayName は「メーカー名 車種」形式を検証する。
func TestVehicleDisplayName(t *testing.T) {
	vehicle := Vehicle{Manufacturer: "トヨタ", Model: "カローラ"}
	if got := VehicleDisplayName(vehicle); got != "トヨタ カローラ" {
		t.Errorf("display name = %q, want %q", got, "トヨタ カローラ")
	}
}

// TestFuelTypeDisplayName は全燃料タイプに表示名が定義されていることを検証する。
func TestFuelTypeDisplayName(t *testing.T) {
	allTypes := []FuelType{
		FuelTypeGasoline, FuelTypeDiesel, FuelTypeHybrid,
		FuelTypePluginHybrid, FuelTypeElectric,
	}
	seen := make(map[string]bool, len(allTypes))
	for _, ft := range allTypes {
		name := FuelTypeDisplayName(ft)
		if name == "" {
			t.Errorf("fuel type %q has no display name", ft)
		}
		if seen[name] {
			t.Errorf("duplicate display name %q", name)
		}
		seen[name] = true
	}

	if got := FuelTypeDisplayName(FuelTypeDiesel); got != "軽油" {
		t.Errorf("diesel display name = %q, want %q", got, "軽油")
	}
}
