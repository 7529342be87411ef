package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// User はサービス利用ユーザーを表すイミュータブルなエンティティ。
// 生成・更新はCreateUser/UpdateUserを通してのみ行う。
type User struct {
	ID        string
	GoogleID  string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateUserParams はユーザー生成の入力パラメータ。
// CreatedAt/UpdatedAtがnilの場合は現在時刻を使用する（テストでは明示注入する）。
type CreateUserParams struct {
	ID        string
	GoogleID  string
	Name      string
	Email     string
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// UpdateUserParams はユーザー更新の入力パラメータ。
// nilのフィールドは変更しない。
type UpdateUserParams struct {
	Name  *string
	Email *string
}

// ユーザー検証のエラーセンチネル。
var (
	ErrUserInvalidID       = &ValidationError{Code: "USER_INVALID_ID", Message: "ユーザーIDが無効です"}
	ErrUserInvalidGoogleID = &ValidationError{Code: "USER_INVALID_GOOGLE_ID", Message: "Google IDが無効です"}
	ErrUserInvalidName     = &ValidationError{Code: "USER_INVALID_NAME", Message: "名前が無効です"}
	ErrUserInvalidEmail    = &ValidationError{Code: "USER_INVALID_EMAIL", Message: "メールアドレスが無効です"}
	ErrUserNameTooLong     = &ValidationError{Code: "USER_NAME_TOO_LONG", Message: "名前は100文字以内で入力してください"}
	ErrUserEmailTooLong    = &ValidationError{Code: "USER_EMAIL_TOO_LONG", Message: "メールアドレスは255文字以内で入力してください"}
)

const (
	// MaxUserNameLength はユーザー名の最大文字数。
	MaxUserNameLength = 100
	// MaxEmailLength はメールアドレスの最大文字数。
	MaxEmailLength = 255
)

// CreateUser は入力を検証し、正規化済みのUserを生成する。
// 検証は定義順に実行され、最初の失敗で打ち切る。
func CreateUser(params CreateUserParams) Result[User] {
	if strings.TrimSpace(params.ID) == "" {
		return Err[User](ErrUserInvalidID)
	}

	if strings.TrimSpace(params.GoogleID) == "" {
		return Err[User](ErrUserInvalidGoogleID)
	}

	if strings.TrimSpace(params.Name) == "" {
		return Err[User](ErrUserInvalidName)
	}

	if utf8.RuneCountInString(params.Name) > MaxUserNameLength {
		return Err[User](ErrUserNameTooLong)
	}

	if strings.TrimSpace(params.Email) == "" {
		return Err[User](ErrUserInvalidEmail)
	}

	trimmedEmail := strings.TrimSpace(params.Email)

	if utf8.RuneCountInString(trimmedEmail) > MaxEmailLength {
		return Err[User](ErrUserEmailTooLong)
	}

	if !emailPattern.MatchString(trimmedEmail) {
		return Err[User](ErrUserInvalidEmail)
	}

	now := timeNow()
	user := User{
		ID:        strings.TrimSpace(params.ID),
		GoogleID:  strings.TrimSpace(params.GoogleID),
		Name:      strings.TrimSpace(params.Name),
		Email:     strings.ToLower(trimmedEmail),
		CreatedAt: timestampOr(params.CreatedAt, now),
		UpdatedAt: timestampOr(params.UpdatedAt, now),
	}

	return Ok(user)
}

// UpdateUser は指定されたフィールドのみを検証・適用した新しいUserを返す。
// 元のUserは変更しない。変更がなくてもUpdatedAtは常に現在時刻に更新される。
func UpdateUser(user User, params UpdateUserParams) Result[User] {
	updated := user

	if params.Name != nil {
		if strings.TrimSpace(*params.Name) == "" {
			return Err[User](ErrUserInvalidName)
		}
		if utf8.RuneCountInString(*params.Name) > MaxUserNameLength {
			return Err[User](ErrUserNameTooLong)
		}
		updated.Name = strings.TrimSpace(*params.Name)
	}

	if params.Email != nil {
		if strings.TrimSpace(*params.Email) == "" {
			return Err[User](ErrUserInvalidEmail)
		}
		trimmedEmail := strings.TrimSpace(*params.Email)
		if utf8.RuneCountInString(trimmedEmail) > MaxEmailLength {
			return Err[User](ErrUserEmailTooLong)
		}
		if !emailPattern.MatchString(trimmedEmail) {
			return Err[User](ErrUserInvalidEmail)
		}
		updated.Email = strings.ToLower(trimmedEmail)
	}

	updated.UpdatedAt = timeNow()

	return Ok(updated)
}

// UserDisplayName は表示名を返す。
// 名前が空の場合はメールアドレスのローカル部を使用する。
func UserDisplayName(user User) string {
	if user.Name != "" {
		return user.Name
	}
	local, _, _ := strings.Cut(user.Email, "@")
	return local
}

// timestampOr はtがnilでなければその値を、nilならfallbackを返す。
func timestampOr(t *time.Time, fallback time.Time) time.Time {
	if t != nil {
		return *t
	}
	return fallback
}
