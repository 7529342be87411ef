package domain

import (
	"strings"
	"time"
)

// PermissionLevel は車両共有の権限レベルを表す。
// viewer < editor < admin の全順序を持つ。
type PermissionLevel string

const (
	// PermissionViewer は閲覧のみ可能な権限。
	PermissionViewer PermissionLevel = "viewer"
	// PermissionEditor は閲覧と編集が可能な権限。
	PermissionEditor PermissionLevel = "editor"
	// PermissionAdmin は削除・共有設定変更を含む全権限。
	PermissionAdmin PermissionLevel = "admin"
)

// Valid は定義済みの権限レベルかどうかを返す。
func (l PermissionLevel) Valid() bool {
	switch l {
	case PermissionViewer, PermissionEditor, PermissionAdmin:
		return true
	}
	return false
}

// permissionRank は権限レベルの階層順位。大きいほど強い権限を表す。
var permissionRank = map[PermissionLevel]int{
	PermissionViewer: 1,
	PermissionEditor: 2,
	PermissionAdmin:  3,
}

// Permission は車両への共有アクセス権を表すイミュータブルな値オブジェクト。
// 更新操作は存在せず、変更は新しいPermissionへの置き換えで表現する。
type Permission struct {
	Level     PermissionLevel
	VehicleID string
	UserID    string
	GrantedBy string
	GrantedAt time.Time
}

// CreatePermissionParams は権限生成の入力パラメータ。
type CreatePermissionParams struct {
	Level     PermissionLevel
	VehicleID string
	UserID    string
	GrantedBy string
	GrantedAt *time.Time
}

// 権限検証のエラーセンチネル。
var (
	ErrPermissionInvalidLevel     = &ValidationError{Code: "PERMISSION_INVALID_LEVEL", Message: "権限レベルが無効です"}
	ErrPermissionInvalidVehicleID = &ValidationError{Code: "PERMISSION_INVALID_VEHICLE_ID", Message: "車両IDが無効です"}
	ErrPermissionInvalidUserID    = &ValidationError{Code: "PERMISSION_INVALID_USER_ID", Message: "ユーザーIDが無効です"}
	ErrPermissionInvalidGrantedBy = &ValidationError{Code: "PERMISSION_INVALID_GRANTED_BY", Message: "権限付与者IDが無効です"}
	ErrPermissionCannotGrantSelf  = &ValidationError{Code: "PERMISSION_CANNOT_GRANT_SELF", Message: "自分自身に権限を付与することはできません"}
)

// CreatePermission は入力を検証し、正規化済みのPermissionを生成する。
// 自己付与（トリム後のUserIDとGrantedByが一致）は拒否する。
func CreatePermission(params CreatePermissionParams) Result[Permission] {
	if !params.Level.Valid() {
		return Err[Permission](ErrPermissionInvalidLevel)
	}

	if strings.TrimSpace(params.VehicleID) == "" {
		return Err[Permission](ErrPermissionInvalidVehicleID)
	}

	if strings.TrimSpace(params.UserID) == "" {
		return Err[Permission](ErrPermissionInvalidUserID)
	}

	if strings.TrimSpace(params.GrantedBy) == "" {
		return Err[Permission](ErrPermissionInvalidGrantedBy)
	}

	if strings.TrimSpace(params.UserID) == strings.TrimSpace(params.GrantedBy) {
		return Err[Permission](ErrPermissionCannotGrantSelf)
	}

	permission := Permission{
		Level:     params.Level,
		VehicleID: strings.TrimSpace(params.VehicleID),
		UserID:    strings.TrimSpace(params.UserID),
		GrantedBy: strings.TrimSpace(params.GrantedBy),
		GrantedAt: timestampOr(params.GrantedAt, timeNow()),
	}

	return Ok(permission)
}

// CanView はデータの閲覧が可能かどうかを返す。全レベルで可能。
func CanView(permission Permission) bool {
	return permission.Level.Valid()
}

// CanEdit はデータの追加・編集が可能かどうかを返す。editor以上で可能。
func CanEdit(permission Permission) bool {
	return permission.Level == PermissionEditor || permission.Level == PermissionAdmin
}

// CanAdmin は管理操作が可能かどうかを返す。adminのみ可能。
func CanAdmin(permission Permission) bool {
	return permission.Level == PermissionAdmin
}

// CanDelete はデータの削除が可能かどうかを返す。adminのみ可能。
func CanDelete(permission Permission) bool {
	return permission.Level == PermissionAdmin
}

// CanShare は共有設定の変更が可能かどうかを返す。adminのみ可能。
func CanShare(permission Permission) bool {
	return permission.Level == PermissionAdmin
}

// CanManagePermissions は権限の管理が可能かどうかを返す。adminのみ可能。
func CanManagePermissions(permission Permission) bool {
	return permission.Level == PermissionAdmin
}

// HasPermission は保持する権限レベルが要求レベル以上かどうかを返す。
func HasPermission(permission Permission, requiredLevel PermissionLevel) bool {
	return permissionRank[permission.Level] >= permissionRank[requiredLevel]
}

// permissionDisplayNames は権限レベルの表示名テーブル。
var permissionDisplayNames = map[PermissionLevel]string{
	PermissionViewer: "閲覧者",
	PermissionEditor: "編集者",
	PermissionAdmin:  "管理者",
}

// permissionDescriptions は権限レベルの説明文テーブル。
var permissionDescriptions = map[PermissionLevel]string{
	PermissionViewer: "データの閲覧のみ可能",
	PermissionEditor: "データの追加・編集が可能",
	PermissionAdmin:  "全権限（削除・共有設定変更を含む）",
}

// PermissionDisplayName は権限レベルの日本語表示名を返す。
func PermissionDisplayName(level PermissionLevel) string {
	return permissionDisplayNames[level]
}

// PermissionDescription は権限レベルの説明文を返す。
func PermissionDescription(level PermissionLevel) string {
	return permissionDescriptions[level]
}
