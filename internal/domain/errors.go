package domain

import "fmt"

// ValidationError はドメイン検証の失敗を表すエラー。
// Codeは安定した識別子であり、呼び出し側はerrors.Isでエラー種別を分岐できる。
// Messageはそのままユーザーに表示される日本語メッセージ。
type ValidationError struct {
	Code    string // エラーコード（安定識別子）
	Message string // ユーザー向けメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *ValidationError) Error() string {
	return e.Message
}

// 共通バリデーターのデフォルトメッセージ。
// エンティティ固有のエラーは各エンティティのファイルで定義する。
var (
	ErrRequired          = &ValidationError{Code: "REQUIRED", Message: "必須項目です"}
	ErrTooShort          = &ValidationError{Code: "TOO_SHORT", Message: "文字数が不足しています"}
	ErrTooLong           = &ValidationError{Code: "TOO_LONG", Message: "文字数が上限を超えています"}
	ErrInvalidEmail      = &ValidationError{Code: "INVALID_EMAIL", Message: "有効なメールアドレスを入力してください"}
	ErrInvalidNumber     = &ValidationError{Code: "INVALID_NUMBER", Message: "有効な数値を入力してください"}
	ErrNumberTooSmall    = &ValidationError{Code: "NUMBER_TOO_SMALL", Message: "値が小さすぎます"}
	ErrNumberTooLarge    = &ValidationError{Code: "NUMBER_TOO_LARGE", Message: "値が大きすぎます"}
	ErrInvalidDate       = &ValidationError{Code: "INVALID_DATE", Message: "有効な日付を入力してください"}
	ErrFutureNotAllowed  = &ValidationError{Code: "FUTURE_DATE_NOT_ALLOWED", Message: "未来の日付は指定できません"}
	ErrPastNotAllowed    = &ValidationError{Code: "PAST_DATE_NOT_ALLOWED", Message: "過去の日付は指定できません"}
	ErrNotPositive       = &ValidationError{Code: "NOT_POSITIVE", Message: "0より大きい値を入力してください"}
	ErrNegative          = &ValidationError{Code: "NEGATIVE", Message: "0以上の値を入力してください"}
	ErrInvalidIDValue    = &ValidationError{Code: "INVALID_ID", Message: "IDが無効です"}
	ErrInvalidOdometer   = &ValidationError{Code: "INVALID_ODOMETER", Message: "走行距離が無効です"}
	ErrInvalidFuelAmount = &ValidationError{Code: "INVALID_FUEL_AMOUNT", Message: "給油量が無効です"}
	ErrInvalidFuelPrice  = &ValidationError{Code: "INVALID_FUEL_PRICE", Message: "燃料単価が無効です"}
)

// APIError はサービス層の統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, permission, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeVehicleNotFound    = "VEHICLE_NOT_FOUND"
	ErrCodeFuelRecordNotFound = "FUEL_RECORD_NOT_FOUND"
	ErrCodePermissionNotFound = "PERMISSION_NOT_FOUND"
	ErrCodePermissionDenied   = "PERMISSION_DENIED"
	ErrCodeCannotRevokeOwner  = "CANNOT_REVOKE_OWNER"
)

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewVehicleNotFoundError は車両未検出エラーを生成する。
func NewVehicleNotFoundError(vehicleID string) *APIError {
	return &APIError{
		Code:     ErrCodeVehicleNotFound,
		Message:  fmt.Sprintf("指定された車両が見つかりません: %s", vehicleID),
		Category: "validation",
		Action:   "車両IDを確認してください。",
	}
}

// NewFuelRecordNotFoundError は給油記録未検出エラーを生成する。
func NewFuelRecordNotFoundError(recordID string) *APIError {
	return &APIError{
		Code:     ErrCodeFuelRecordNotFound,
		Message:  fmt.Sprintf("指定された給油記録が見つかりません: %s", recordID),
		Category: "validation",
		Action:   "給油記録IDを確認してください。",
	}
}

// NewPermissionNotFoundError は権限未検出エラーを生成する。
func NewPermissionNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodePermissionNotFound,
		Message:  "指定された共有設定が見つかりません。",
		Category: "permission",
		Action:   "共有設定の一覧を確認してください。",
	}
}

// NewPermissionDeniedError は操作権限がない場合のエラーを生成する。
func NewPermissionDeniedError() *APIError {
	return &APIError{
		Code:     ErrCodePermissionDenied,
		Message:  "この操作を行う権限がありません。",
		Category: "permission",
		Action:   "車両の所有者または管理者に権限の付与を依頼してください。",
	}
}

// NewCannotRevokeOwnerError は所有者の権限を剥奪しようとした場合のエラーを生成する。
func NewCannotRevokeOwnerError() *APIError {
	return &APIError{
		Code:     ErrCodeCannotRevokeOwner,
		Message:  "車両所有者の権限は変更できません。",
		Category: "permission",
		Action:   "所有者以外のユーザーを指定してください。",
	}
}
