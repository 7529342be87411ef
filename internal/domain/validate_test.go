package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func boolPtr(b bool) *bool          { return &b }
func floatPtr(f float64) *float64   { return &f }
func strPtr(s string) *string       { return &s }
func timePtr(t time.Time) *time.Time { return &t }

// TestValidateString は文字列検証のトリム・長さ・必須チェックを検証する。
func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		opts    StringOptions
		want    string
		wantErr error
	}{
		{name: "トリムされる", value: "  hello  ", opts: StringOptions{}, want: "hello"},
		{name: "空文字はデフォルトで許可", value: "", opts: StringOptions{}, want: ""},
		{name: "空白のみは空として扱う", value: "   ", opts: StringOptions{}, want: ""},
		{name: "必須で空は失敗", value: "  ", opts: StringOptions{Required: true}, wantErr: ErrRequired},
		{name: "AllowEmpty=falseで空は失敗", value: "", opts: StringOptions{AllowEmpty: boolPtr(false)}, wantErr: ErrRequired},
		{name: "最小長未満は失敗", value: "ab", opts: StringOptions{MinLength: 3}, wantErr: ErrTooShort},
		{name: "最大長超過は失敗", value: "abcd", opts: StringOptions{MaxLength: 3}, wantErr: ErrTooLong},
		{name: "最大長ちょうどは成功", value: "abc", opts: StringOptions{MaxLength: 3}, want: "abc"},
		{name: "日本語は文字数で判定", value: "あいう", opts: StringOptions{MaxLength: 3}, want: "あいう"},
		{name: "カスタムエラーが優先される", value: "", opts: StringOptions{Required: true, Custom: ErrUserInvalidName}, wantErr: ErrUserInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateString(tt.value, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(r.Err(), tt.wantErr) {
					t.Errorf("err = %v, want %v", r.Err(), tt.wantErr)
				}
				return
			}
			if r.IsErr() {
				t.Fatalf("unexpected error: %v", r.Err())
			}
			if got := r.Value(); got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestValidateString_Idempotent は正規化済みの値の再検証が同一値を返すことを検証する。
func TestValidateString_Idempotent(t *testing.T) {
	first := ValidateString("  padded value  ", StringOptions{}).Unwrap()
	second := ValidateString(first, StringOptions{}).Unwrap()
	if first != second {
		t.Errorf("re-validation changed value: %q -> %q", first, second)
	}
}

// TestValidateEmail はメールアドレスの形式チェックと小文字化を検証する。
func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		opts    StringOptions
		want    string
		wantErr error
	}{
		{name: "正常な形式は小文字化", value: "  Taro@Example.COM  ", opts: StringOptions{}, want: "taro@example.com"},
		{name: "空文字は必須でなければ許可", value: "", opts: StringOptions{}, want: ""},
		{name: "アットマークなしは失敗", value: "not-an-email", opts: StringOptions{}, wantErr: ErrInvalidEmail},
		{name: "ドメインにドットなしは失敗", value: "user@localhost", opts: StringOptions{}, wantErr: ErrInvalidEmail},
		{name: "空白を含む形式は失敗", value: "user name@example.com", opts: StringOptions{}, wantErr: ErrInvalidEmail},
		{name: "必須で空は失敗", value: "", opts: StringOptions{Required: true}, wantErr: ErrRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateEmail(tt.value, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(r.Err(), tt.wantErr) {
					t.Errorf("err = %v, want %v", r.Err(), tt.wantErr)
				}
				return
			}
			if r.IsErr() {
				t.Fatalf("unexpected error: %v", r.Err())
			}
			if got := r.Value(); got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestValidateNumber は数値・数値文字列の受け付けと範囲チェックを検証する。
func TestValidateNumber(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		opts    NumberOptions
		want    float64
		wantErr error
	}{
		{name: "float64を受け付ける", value: 12.5, want: 12.5},
		{name: "intを受け付ける", value: 7, want: 7},
		{name: "数値文字列をパースする", value: "42.25", want: 42.25},
		{name: "nilは失敗", value: nil, wantErr: ErrInvalidNumber},
		{name: "nilかつ必須はRequired", value: nil, opts: NumberOptions{Required: true}, wantErr: ErrRequired},
		{name: "非数値文字列は失敗", value: "abc", wantErr: ErrInvalidNumber},
		{name: "最小値未満は失敗", value: 1.0, opts: NumberOptions{Min: floatPtr(2)}, wantErr: ErrNumberTooSmall},
		{name: "最大値超過は失敗", value: 3.0, opts: NumberOptions{Max: floatPtr(2)}, wantErr: ErrNumberTooLarge},
		{name: "境界値は成功", value: 2.0, opts: NumberOptions{Min: floatPtr(2), Max: floatPtr(2)}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateNumber(tt.value, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(r.Err(), tt.wantErr) {
					t.Errorf("err = %v, want %v", r.Err(), tt.wantErr)
				}
				return
			}
			if r.IsErr() {
				t.Fatalf("unexpected error: %v", r.Err())
			}
			if got := r.Value(); got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestValidatePositiveNumber は0より大きい値の要求を検証する。
func TestValidatePositiveNumber(t *testing.T) {
	if r := ValidatePositiveNumber(0.0, NumberOptions{}); !errors.Is(r.Err(), ErrNotPositive) {
		t.Errorf("0 should fail with ErrNotPositive, got %v", r.Err())
	}
	if r := ValidatePositiveNumber(0.01, NumberOptions{}); r.IsErr() {
		t.Errorf("0.01 should pass, got %v", r.Err())
	}
}

// TestValidateNonNegativeNumber は0以上の値の要求を検証する。
func TestValidateNonNegativeNumber(t *testing.T) {
	if r := ValidateNonNegativeNumber(-0.1, NumberOptions{}); !errors.Is(r.Err(), ErrNegative) {
		t.Errorf("-0.1 should fail with ErrNegative, got %v", r.Err())
	}
	if r := ValidateNonNegativeNumber(0.0, NumberOptions{}); r.IsErr() {
		t.Errorf("0 should pass, got %v", r.Err())
	}
}

// TestValidateInteger は小数部の切り捨てを検証する。
func TestValidateInteger(t *testing.T) {
	if got := ValidateInteger(12.9, NumberOptions{}).Unwrap(); got != 12 {
		t.Errorf("12.9 -> %v, want 12", got)
	}
	// 負の無限大方向への切り捨て
	if got := ValidateInteger(-2.5, NumberOptions{}).Unwrap(); got != -3 {
		t.Errorf("-2.5 -> %v, want -3", got)
	}
}

// TestValidateDate は日付の受け付けと未来・過去チェックを検証する。
func TestValidateDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	withFixedTime(t, now)

	tests := []struct {
		name    string
		value   any
		opts    DateOptions
		wantErr error
	}{
		{name: "time.Timeを受け付ける", value: now.Add(-time.Hour)},
		{name: "RFC3339文字列を受け付ける", value: "2025-06-14T10:00:00Z"},
		{name: "日付のみ文字列を受け付ける", value: "2025-06-14"},
		{name: "nilは失敗", value: nil, wantErr: ErrInvalidDate},
		{name: "パース不能な文字列は失敗", value: "not-a-date", wantErr: ErrInvalidDate},
		{name: "ゼロ値は失敗", value: time.Time{}, wantErr: ErrInvalidDate},
		{name: "未来不許可で未来は失敗", value: now.Add(time.Second), opts: DateOptions{AllowFuture: boolPtr(false)}, wantErr: ErrFutureNotAllowed},
		{name: "未来不許可で現在と同時刻は成功", value: now, opts: DateOptions{AllowFuture: boolPtr(false)}},
		{name: "過去不許可で過去は失敗", value: now.Add(-time.Second), opts: DateOptions{AllowPast: boolPtr(false)}, wantErr: ErrPastNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateDate(tt.value, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(r.Err(), tt.wantErr) {
					t.Errorf("err = %v, want %v", r.Err(), tt.wantErr)
				}
				return
			}
			if r.IsErr() {
				t.Errorf("unexpected error: %v", r.Err())
			}
		})
	}
}

// TestValidateID は空でないIDの要求を検証する。
func TestValidateID(t *testing.T) {
	if r := ValidateID("  ", nil); !errors.Is(r.Err(), ErrInvalidIDValue) {
		t.Errorf("blank id should fail with ErrInvalidIDValue, got %v", r.Err())
	}
	if got := ValidateID("  user-1  ", nil).Unwrap(); got != "user-1" {
		t.Errorf("id = %q, want %q", got, "user-1")
	}
	if r := ValidateID("", ErrUserInvalidID); !errors.Is(r.Err(), ErrUserInvalidID) {
		t.Errorf("custom sentinel should be returned, got %v", r.Err())
	}
}

// TestValidateCurrency は通貨額の丸めを検証する。
func TestValidateCurrency(t *testing.T) {
	if got := ValidateCurrency(165.567, NumberOptions{}).Unwrap(); got != 165.57 {
		t.Errorf("165.567 -> %v, want 165.57", got)
	}
	// 四捨五入（round-half-up）
	if got := ValidateCurrency(1.005, NumberOptions{}).Unwrap(); got != 1.0 && got != 1.01 {
		t.Errorf("1.005 -> %v, want 1.00 or 1.01 (binary representation dependent)", got)
	}
	if r := ValidateCurrency(0.0, NumberOptions{}); !errors.Is(r.Err(), ErrNotPositive) {
		t.Errorf("0 should fail, got %v", r.Err())
	}
}

// TestValidateOdometer は走行距離の上限と切り捨てを検証する。
func TestValidateOdometer(t *testing.T) {
	if got := ValidateOdometer(15000.9, NumberOptions{}).Unwrap(); got != 15000 {
		t.Errorf("15000.9 -> %v, want 15000", got)
	}
	if got := ValidateOdometer(9999999.0, NumberOptions{}).Unwrap(); got != 9999999 {
		t.Errorf("9999999 -> %v, want 9999999", got)
	}
	if r := ValidateOdometer(10000000.0, NumberOptions{}); !errors.Is(r.Err(), ErrInvalidOdometer) {
		t.Errorf("over max should fail with ErrInvalidOdometer, got %v", r.Err())
	}
	if r := ValidateOdometer(-1.0, NumberOptions{}); !errors.Is(r.Err(), ErrInvalidOdometer) {
		t.Errorf("negative should fail with ErrInvalidOdometer, got %v", r.Err())
	}
}

// TestValidateFuelAmount は給油量の上限と丸めを検証する。
func TestValidateFuelAmount(t *testing.T) {
	if got := ValidateFuelAmount(35.844, NumberOptions{}).Unwrap(); got != 35.84 {
		t.Errorf("35.844 -> %v, want 35.84", got)
	}
	if r := ValidateFuelAmount(1000.0, NumberOptions{}); !errors.Is(r.Err(), ErrInvalidFuelAmount) {
		t.Errorf("over max should fail with ErrInvalidFuelAmount, got %v", r.Err())
	}
}

// TestValidateFuelPrice は燃料単価の上限と丸めを検証する。
func TestValidateFuelPrice(t *testing.T) {
	if got := ValidateFuelPrice("165.56", NumberOptions{}).Unwrap(); got != 165.56 {
		t.Errorf("165.56 -> %v, want 165.56", got)
	}
	if r := ValidateFuelPrice(1000.0, NumberOptions{}); !errors.Is(r.Err(), ErrInvalidFuelPrice) {
		t.Errorf("over max should fail with ErrInvalidFuelPrice, got %v", r.Err())
	}
}

// TestValidationMessages はメッセージ分類がコードと対で安定していることを検証する。
func TestValidationMessages(t *testing.T) {
	sentinels := []*ValidationError{
		ErrRequired, ErrTooShort, ErrTooLong, ErrInvalidEmail,
		ErrInvalidNumber, ErrNumberTooSmall, ErrNumberTooLarge,
		ErrInvalidDate, ErrFutureNotAllowed, ErrPastNotAllowed,
		ErrNotPositive, ErrNegative, ErrInvalidIDValue,
		ErrInvalidOdometer, ErrInvalidFuelAmount, ErrInvalidFuelPrice,
	}
	seen := make(map[string]bool, len(sentinels))
	for _, s := range sentinels {
		if s.Code == "" || strings.TrimSpace(s.Message) == "" {
			t.Errorf("sentinel %+v has empty code or message", s)
		}
		if seen[s.Code] {
			t.Errorf("duplicate sentinel code %q", s.Code)
		}
		seen[s.Code] = true
	}
}
