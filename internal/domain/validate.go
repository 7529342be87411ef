package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// 数値入力として受け付ける安全な範囲。
// これを超える値は桁あふれとして拒否する。
const (
	maxSafeNumber = float64(9007199254740991)
	minSafeNumber = -maxSafeNumber
)

// emailPattern はメールアドレスの簡易形式チェック。
// 厳密なRFC準拠ではなく「空白を含まないlocal@domain.tld」を要求する。
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// StringOptions は文字列バリデーターのオプション。
// MaxLengthが0の場合は上限なし。AllowEmptyがnilの場合は空文字を許可する。
type StringOptions struct {
	Required   bool
	MinLength  int
	MaxLength  int
	AllowEmpty *bool
	Custom     *ValidationError // 指定された場合、すべての失敗でこのエラーを返す
}

// NumberOptions は数値バリデーターのオプション。
// Min/Maxがnilの場合は安全な数値範囲をデフォルトとする。
type NumberOptions struct {
	Required bool
	Min      *float64
	Max      *float64
	Custom   *ValidationError
}

// DateOptions は日付バリデーターのオプション。
// AllowFuture/AllowPastがnilの場合はそれぞれ許可として扱う。
type DateOptions struct {
	Required    bool
	AllowFuture *bool
	AllowPast   *bool
	Custom      *ValidationError
}

// ValidateString は文字列を検証し、トリム済みの値を返す。
// 検証順序: 必須 → 空文字 → 最小長 → 最大長。長さはトリム後の文字数（rune数）で判定する。
func ValidateString(value string, opts StringOptions) Result[string] {
	fail := func(err *ValidationError) Result[string] {
		if opts.Custom != nil {
			return Err[string](opts.Custom)
		}
		return Err[string](err)
	}

	trimmed := strings.TrimSpace(value)

	if opts.Required && trimmed == "" {
		return fail(ErrRequired)
	}

	if opts.AllowEmpty != nil && !*opts.AllowEmpty && trimmed == "" {
		return fail(ErrRequired)
	}

	length := utf8.RuneCountInString(trimmed)

	if length < opts.MinLength {
		return fail(ErrTooShort)
	}

	if opts.MaxLength > 0 && length > opts.MaxLength {
		return fail(ErrTooLong)
	}

	return Ok(trimmed)
}

// ValidateEmail はメールアドレスを検証し、小文字化した値を返す。
// 空文字は（必須でない限り）そのまま許容する。
func ValidateEmail(value string, opts StringOptions) Result[string] {
	r := ValidateString(value, opts)
	if r.IsErr() {
		return r
	}

	email := r.Value()
	if email == "" {
		return Ok(email)
	}

	if !emailPattern.MatchString(email) {
		if opts.Custom != nil {
			return Err[string](opts.Custom)
		}
		return Err[string](ErrInvalidEmail)
	}

	return Ok(strings.ToLower(email))
}

// ValidateNumber は数値または数値文字列を検証する。
// nil、非数値、NaNは失敗。Min/Maxの範囲チェックを行う。
func ValidateNumber(value any, opts NumberOptions) Result[float64] {
	fail := func(err *ValidationError) Result[float64] {
		if opts.Custom != nil {
			return Err[float64](opts.Custom)
		}
		return Err[float64](err)
	}

	if value == nil {
		if opts.Required {
			return fail(ErrRequired)
		}
		return fail(ErrInvalidNumber)
	}

	var num float64
	switch v := value.(type) {
	case float64:
		num = v
	case float32:
		num = float64(v)
	case int:
		num = float64(v)
	case int64:
		num = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fail(ErrInvalidNumber)
		}
		num = parsed
	default:
		return fail(ErrInvalidNumber)
	}

	if math.IsNaN(num) {
		return fail(ErrInvalidNumber)
	}

	min := minSafeNumber
	if opts.Min != nil {
		min = *opts.Min
	}
	max := maxSafeNumber
	if opts.Max != nil {
		max = *opts.Max
	}

	if num < min {
		return fail(ErrNumberTooSmall)
	}

	if num > max {
		return fail(ErrNumberTooLarge)
	}

	return Ok(num)
}

// ValidatePositiveNumber は0より大きい数値を検証する。
func ValidatePositiveNumber(value any, opts NumberOptions) Result[float64] {
	min := 0.01
	custom := opts.Custom
	if custom == nil {
		custom = ErrNotPositive
	}
	return ValidateNumber(value, NumberOptions{
		Required: opts.Required,
		Min:      &min,
		Max:      opts.Max,
		Custom:   custom,
	})
}

// ValidateNonNegativeNumber は0以上の数値を検証する。
func ValidateNonNegativeNumber(value any, opts NumberOptions) Result[float64] {
	min := 0.0
	custom := opts.Custom
	if custom == nil {
		custom = ErrNegative
	}
	return ValidateNumber(value, NumberOptions{
		Required: opts.Required,
		Min:      &min,
		Max:      opts.Max,
		Custom:   custom,
	})
}

// ValidateInteger は数値を検証し、小数部を切り捨てた整数値を返す。
func ValidateInteger(value any, opts NumberOptions) Result[float64] {
	r := ValidateNumber(value, opts)
	if r.IsErr() {
		return r
	}
	return Ok(math.Floor(r.Value()))
}

// ValidateDate は日付を検証する。time.Timeまたは日付文字列を受け付ける。
// ゼロ値・パース不能な文字列は失敗。未来・過去の許可は検証時点の時刻で判定する。
// 現在時刻と等しい日付は未来として扱わない（strictly greaterのみ拒否）。
func ValidateDate(value any, opts DateOptions) Result[time.Time] {
	fail := func(err *ValidationError) Result[time.Time] {
		if opts.Custom != nil {
			return Err[time.Time](opts.Custom)
		}
		return Err[time.Time](err)
	}

	if value == nil {
		if opts.Required {
			return fail(ErrRequired)
		}
		return fail(ErrInvalidDate)
	}

	var date time.Time
	switch v := value.(type) {
	case time.Time:
		date = v
	case string:
		parsed, err := parseDateString(v)
		if err != nil {
			return fail(ErrInvalidDate)
		}
		date = parsed
	default:
		return fail(ErrInvalidDate)
	}

	if date.IsZero() {
		return fail(ErrInvalidDate)
	}

	now := timeNow()
	if opts.AllowFuture != nil && !*opts.AllowFuture && date.After(now) {
		return fail(ErrFutureNotAllowed)
	}

	if opts.AllowPast != nil && !*opts.AllowPast && date.Before(now) {
		return fail(ErrPastNotAllowed)
	}

	return Ok(date)
}

// parseDateString は日付文字列をパースする。
// RFC3339を優先し、日付のみの形式（YYYY-MM-DD）にもフォールバックする。
func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// ValidateID は空でないID文字列を検証する。
func ValidateID(value string, custom *ValidationError) Result[string] {
	allowEmpty := false
	if custom == nil {
		custom = ErrInvalidIDValue
	}
	return ValidateString(value, StringOptions{
		Required:   true,
		MinLength:  1,
		AllowEmpty: &allowEmpty,
		Custom:     custom,
	})
}

// ValidateCurrency は通貨額を検証し、小数第2位に丸めた値を返す。
func ValidateCurrency(value any, opts NumberOptions) Result[float64] {
	r := ValidatePositiveNumber(value, opts)
	if r.IsErr() {
		return r
	}
	return Ok(roundTo2(r.Value()))
}

// ValidateOdometer は走行距離を検証する。0以上9,999,999km以下、小数部は切り捨てる。
func ValidateOdometer(value any, opts NumberOptions) Result[float64] {
	max := float64(MaxOdometer)
	custom := opts.Custom
	if custom == nil {
		custom = ErrInvalidOdometer
	}
	r := ValidateNonNegativeNumber(value, NumberOptions{
		Required: opts.Required,
		Max:      &max,
		Custom:   custom,
	})
	if r.IsErr() {
		return r
	}
	return Ok(math.Floor(r.Value()))
}

// ValidateFuelAmount は給油量を検証する。0より大きく999.99L以下。
func ValidateFuelAmount(value any, opts NumberOptions) Result[float64] {
	max := MaxFuelAmount
	custom := opts.Custom
	if custom == nil {
		custom = ErrInvalidFuelAmount
	}
	return ValidateCurrency(value, NumberOptions{
		Required: opts.Required,
		Max:      &max,
		Custom:   custom,
	})
}

// ValidateFuelPrice は燃料単価を検証する。0より大きく999.99円/L以下。
func ValidateFuelPrice(value any, opts NumberOptions) Result[float64] {
	max := MaxFuelPrice
	custom := opts.Custom
	if custom == nil {
		custom = ErrInvalidFuelPrice
	}
	return ValidateCurrency(value, NumberOptions{
		Required: opts.Required,
		Max:      &max,
		Custom:   custom,
	})
}

// roundTo2 は小数第2位への四捨五入を行う（100倍して丸めて100で割る）。
func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
