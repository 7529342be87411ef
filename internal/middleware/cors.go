package middleware

import "net/http"

// corsAllowedMethods はfuelog APIが受け付ける全HTTPメソッド。
// 給油記録と車両の部分更新にPATCHを使用する。
const corsAllowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"

// corsAllowedHeaders はプリフライトで許可するリクエストヘッダー。
// CSRFの二重送信トークンをヘッダーで受け取るため、X-CSRF-Tokenを含む。
const corsAllowedHeaders = "Content-Type, X-CSRF-Token"

// NewCORSMiddleware はフロントエンドのオリジンに対するCORSミドルウェアを返す。
// セッションCookieを送信させるためAllow-Credentialsをtrueにする。
// credentialsと共存できないため、オリジンにワイルドカード(*)は使用しない。
func NewCORSMiddleware(allowedOrigin string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowedOrigin)
			h.Set("Access-Control-Allow-Methods", corsAllowedMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Max-Age", "86400")

			// プリフライトはここで完結させる
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
