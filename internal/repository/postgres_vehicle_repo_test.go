package repository

import (
	"testing"
)

// PostgresVehicleRepoはVehicleRepositoryインターフェースを満たすことを検証
func TestPostgresVehicleRepo_ImplementsInterface(t *testing.T) {
	var _ VehicleRepository = (*PostgresVehicleRepo)(nil)
}

// PostgresFuelRecordRepoはFuelRecordRepositoryインターフェースを満たすことを検証
func TestPostgresFuelRecordRepo_ImplementsInterface(t *testing.T) {
	var _ FuelRecordRepository = (*PostgresFuelRecordRepo)(nil)
}

// PostgresPermissionRepoはPermissionRepositoryインターフェースを満たすことを検証
func TestPostgresPermissionRepo_ImplementsInterface(t *testing.T) {
	var _ PermissionRepository = (*PostgresPermissionRepo)(nil)
}

// NewPostgresVehicleRepoが正しく初期化されることを検証
func TestNewPostgresVehicleRepo_Initializes(t *testing.T) {
	repo := NewPostgresVehicleRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresFuelRecordRepoが正しく初期化されることを検証
func TestNewPostgresFuelRecordRepo_Initializes(t *testing.T) {
	repo := NewPostgresFuelRecordRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresPermissionRepoが正しく初期化されることを検証
func TestNewPostgresPermissionRepo_Initializes(t *testing.T) {
	repo := NewPostgresPermissionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}
