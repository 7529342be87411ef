// Package config は環境変数ベースのアプリケーション設定を提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はfuelog全体の設定を保持する。
// 起動時に1回読み込み、以降はイミュータブルとして扱う。
type Config struct {
	// PostgreSQL接続URL
	DatabaseURL string

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// セッション
	SessionMaxAge          int           // セッション有効期間（秒）
	SessionCleanupInterval time.Duration // 期限切れセッション削除の実行間隔

	// レート制限（req/min/user）
	RateLimitGeneral int
	RateLimitWrite   int

	// HTTPサーバー
	ServerPort string
	BaseURL    string // OAuthコールバック後のリダイレクト先

	// Cookie
	CookieSecure bool // BaseURLがhttpsの場合に自動でtrue
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が1つでも未設定の場合、不足分をまとめてエラーで報告する。
func Load() (*Config, error) {
	var missing []string
	require := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		DatabaseURL:        require("DATABASE_URL"),
		GoogleClientID:     require("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: require("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  require("GOOGLE_REDIRECT_URL"),
		BaseURL:            require("BASE_URL"),
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.SessionMaxAge = envInt("SESSION_MAX_AGE", 86400)
	cfg.SessionCleanupInterval = envDuration("SESSION_CLEANUP_INTERVAL", 1*time.Hour)
	cfg.RateLimitGeneral = envInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitWrite = envInt("RATE_LIMIT_WRITE", 30)
	cfg.ServerPort = envString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = envString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = envString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt は整数として解釈できない値をフォールバックに落とす。
func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

// envDuration はGoのduration表記（"30m"、"1h"など）を受け付ける。
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
