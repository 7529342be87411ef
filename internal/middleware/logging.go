package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// responseRecorder はhttp.ResponseWriterをラップし、
// ハンドラーが書き込んだステータスコードを後段で参照できるようにする。
type responseRecorder struct {
	http.ResponseWriter
	status    int
	committed bool
}

func (rr *responseRecorder) WriteHeader(code int) {
	if !rr.committed {
		rr.status = code
		rr.committed = true
	}
	rr.ResponseWriter.WriteHeader(code)
}

// Write はWriteHeader未呼び出しのままボディが書かれた場合に200を確定させる。
func (rr *responseRecorder) Write(b []byte) (int, error) {
	if !rr.committed {
		rr.status = http.StatusOK
		rr.committed = true
	}
	return rr.ResponseWriter.Write(b)
}

// levelForStatus はステータスコードに応じたログレベルを返す。
// 5xxはError、4xxはWarn、それ以外はInfo。
func levelForStatus(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// NewLoggingMiddleware はリクエスト1件につき1行のJSON構造化ログを出力するミドルウェアを返す。
// method、path、status、duration_msに加え、セッションミドルウェアを通過済みの
// リクエストではuser_idを記録する。
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Float64("duration_ms", float64(time.Since(start).Nanoseconds())/float64(time.Millisecond)),
			}
			if userID, err := UserIDFromContext(r.Context()); err == nil && userID != "" {
				attrs = append(attrs, slog.String("user_id", userID))
			}

			logger.LogAttrs(r.Context(), levelForStatus(rec.status), "http_request", attrs...)
		})
	}
}
