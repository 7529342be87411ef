// Package domain は燃費記録アプリケーションのドメインモデルと検証ロジックを定義する。
// すべてのエンティティはイミュータブルな値として生成され、
// 検証に失敗しうる操作はResultを返す（期待される失敗でpanicしない）。
package domain

// Result は成功値またはエラーのいずれか一方を保持するコンテナ。
// ドメイン層の検証失敗はすべてResultのエラー側として返す。
type Result[T any] struct {
	value T
	err   error
}

// Ok は成功のResultを生成する。
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err は失敗のResultを生成する。
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsOk は成功かどうかを返す。
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// IsErr は失敗かどうかを返す。
func (r Result[T]) IsErr() bool {
	return r.err != nil
}

// Value は成功値を返す。失敗の場合はゼロ値を返す。
// 成功が確定していない場合はIsOkと組み合わせて使用すること。
func (r Result[T]) Value() T {
	return r.value
}

// Err はエラーを返す。成功の場合はnilを返す。
func (r Result[T]) Err() error {
	return r.err
}

// Unwrap は成功値を返す。失敗の場合はpanicする。
// 成功が既に証明されている文脈（テスト等）でのみ使用すること。
func (r Result[T]) Unwrap() T {
	if r.err != nil {
		panic("domain: Unwrap called on Err result: " + r.err.Error())
	}
	return r.value
}

// UnwrapOr は成功値を返す。失敗の場合はdefaultValueを返す。
func (r Result[T]) UnwrapOr(defaultValue T) T {
	if r.err != nil {
		return defaultValue
	}
	return r.value
}

// UnwrapOrElse は成功値を返す。失敗の場合はfn(err)の結果を返す。
func (r Result[T]) UnwrapOrElse(fn func(err error) T) T {
	if r.err != nil {
		return fn(r.err)
	}
	return r.value
}

// Map は成功値をfnで変換したResultを返す。失敗はそのまま伝播する。
func Map[T, U any](r Result[T], fn func(value T) U) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return Ok(fn(r.value))
}

// MapErr はエラーをfnで変換したResultを返す。成功はそのまま伝播する。
func MapErr[T any](r Result[T], fn func(err error) error) Result[T] {
	if r.err != nil {
		return Err[T](fn(r.err))
	}
	return r
}

// FlatMap は成功値に依存する後続の検証をチェーンする。
// 失敗した時点で後続は評価されない。
func FlatMap[T, U any](r Result[T], fn func(value T) Result[U]) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return fn(r.value)
}
