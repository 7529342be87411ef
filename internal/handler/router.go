package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/fuelog/internal/auth"
	"github.com/hitoshi/fuelog/internal/fuelrecord"
	"github.com/hitoshi/fuelog/internal/middleware"
	"github.com/hitoshi/fuelog/internal/sharing"
	"github.com/hitoshi/fuelog/internal/user"
	"github.com/hitoshi/fuelog/internal/vehicle"
)

// 各サービスがハンドラーのインターフェースを満たすことをコンパイル時に検証する。
var (
	_ AuthServiceInterface       = (*auth.Service)(nil)
	_ VehicleServiceInterface    = (*vehicle.Service)(nil)
	_ FuelRecordServiceInterface = (*fuelrecord.Service)(nil)
	_ SharingServiceInterface    = (*sharing.Service)(nil)
	_ UserServiceInterface       = (*user.Service)(nil)
)

// SetupAuthRoutes は認証関連のルーティングを設定したchi.Routerを返す。
func SetupAuthRoutes(service AuthServiceInterface, config AuthHandlerConfig) http.Handler {
	r := chi.NewRouter()
	h := NewAuthHandler(service, config)

	r.Route("/auth", func(r chi.Router) {
		// OAuthフロー
		r.Get("/google/login", h.Login)
		r.Get("/google/callback", h.Callback)

		// セッション管理
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})

	return r
}

// HealthChecker はヘルスチェックのためのDB疎通確認インターフェース。
// *sql.DB がこのインターフェースを満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig
	RateLimiter       *middleware.RateLimiter

	// 監視
	HealthChecker  HealthChecker                  // nilの場合はDB疎通確認をスキップする
	MetricsHandler http.Handler                   // nilの場合は/metricsを公開しない
	Metrics        middleware.HTTPMetricsRecorder // nilの場合はHTTPメトリクスを記録しない

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 車両
	VehicleService VehicleServiceInterface

	// 給油記録
	FuelRecordService FuelRecordServiceInterface

	// 共有権限
	SharingService SharingServiceInterface

	// ユーザー
	UserService UserServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → SessionMiddleware → CSRFMiddleware → RateLimitMiddleware(GeneralMiddleware)
//
// 認証ルート（/auth/*）とCSRFトークン取得はミドルウェアチェーンの外に配置する。
// 書き込み系ルート（POST/PUT/PATCH/DELETE）には書き込み専用レート制限を追加する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルートに効くミドルウェア（外側から順に適用）
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	vehicleHandler := NewVehicleHandler(deps.VehicleService)
	recordHandler := NewFuelRecordHandler(deps.FuelRecordService)
	sharingHandler := NewSharingHandler(deps.SharingService)
	userHandler := NewUserHandler(deps.UserService)

	// --- 認証不要のルート ---

	// ヘルスチェック（Dockerヘルスチェックと死活監視用）
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(req.Context()); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Prometheusスクレイプ用エンドポイント
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// 認証ルート（OAuthフロー）
	r.Route("/auth", func(r chi.Router) {
		r.Get("/google/login", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// CSRFトークン取得（認証不要）
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → CSRF → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		writeLimit := deps.RateLimiter.WriteMiddleware()

		// 車両管理
		r.Route("/api/vehicles", func(r chi.Router) {
			r.Get("/", vehicleHandler.ListVehicles)
			r.With(writeLimit).Post("/", vehicleHandler.CreateVehicle)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", vehicleHandler.GetVehicle)
				r.With(writeLimit).Patch("/", vehicleHandler.UpdateVehicle)
				r.With(writeLimit).Delete("/", vehicleHandler.DeleteVehicle)

				// 給油記録（車両単位）
				r.Get("/records", recordHandler.ListRecords)
				r.With(writeLimit).Post("/records", recordHandler.CreateRecord)

				// 共有権限管理
				r.Route("/permissions", func(r chi.Router) {
					r.Get("/", sharingHandler.ListPermissions)
					r.With(writeLimit).Put("/", sharingHandler.GrantPermission)
					r.With(writeLimit).Delete("/{userID}", sharingHandler.RevokePermission)
				})
			})
		})

		// 給油記録（記録単位）
		r.Route("/api/records/{id}", func(r chi.Router) {
			r.Get("/", recordHandler.GetRecord)
			r.With(writeLimit).Patch("/", recordHandler.UpdateRecord)
			r.With(writeLimit).Delete("/", recordHandler.DeleteRecord)
		})

		// ユーザー管理
		r.Route("/api/users", func(r chi.Router) {
			r.Get("/me", userHandler.GetProfile)
			r.With(writeLimit).Patch("/me", userHandler.UpdateProfile)
			r.With(writeLimit).Delete("/me", userHandler.Withdraw)
		})
	})

	return r
}
