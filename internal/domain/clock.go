package domain

import "time"

// timeNow は現在時刻の取得関数。
// デフォルトタイムスタンプの付与と未来日付チェックに使用する。
// テストから固定時刻に差し替えることで決定的な検証を可能にする。
var timeNow = time.Now
