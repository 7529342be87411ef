package domain

import (
	"testing"
	"time"
)

// withFixedTime はテスト中だけtimeNowを固定時刻に差し替える。
func withFixedTime(t *testing.T, fixed time.Time) {
	t.Helper()
	original := timeNow
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = original })
}

// withTickingTime はテスト中だけtimeNowを呼び出しごとに1秒進む時計に差し替える。
// UpdatedAtの単調増加を検証するために使用する。
func withTickingTime(t *testing.T, start time.Time) {
	t.Helper()
	original := timeNow
	current := start
	timeNow = func() time.Time {
		current = current.Add(time.Second)
		return current
	}
	t.Cleanup(func() { timeNow = original })
}
