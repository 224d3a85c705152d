package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/leavedesk/internal/metrics"
	"github.com/hitoshi/leavedesk/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Metrics           *metrics.Collector
	MetricsGatherer   prometheus.Gatherer

	// ヘルスチェック
	HealthChecker HealthChecker

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 請假申請
	LeaveService LeaveServiceInterface

	// ユーザー
	UserService UserServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// 外側のミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics
//
// 認証が必要なルートにはさらに Session → RateLimit(General) を適用する。
// 登録・ログインには接続元IP単位のレート制限（RateLimit(Login)）のみを適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	leaveHandler := NewLeaveHandler(deps.LeaveService)
	userHandler := NewUserHandler(deps.UserService)

	// --- 認証不要のルート ---

	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	r.Route("/auth", func(r chi.Router) {
		// 登録・ログインは未認証リクエストのため、接続元IP単位で制限する
		r.With(deps.RateLimiter.LoginMiddleware()).Post("/register", authHandler.Register)
		r.With(deps.RateLimiter.LoginMiddleware()).Post("/login", authHandler.Login)

		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 請假申請
		r.Route("/api/leaves", func(r chi.Router) {
			r.Post("/", leaveHandler.Submit)
			r.Get("/", leaveHandler.ListMine)
			r.Get("/types", leaveHandler.ListTypes)
			r.Get("/pending", leaveHandler.ListPending)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", leaveHandler.Detail)
				r.Post("/approve", leaveHandler.Approve)
				r.Post("/reject", leaveHandler.Reject)
			})
		})

		// ユーザープロフィール
		r.Route("/api/users", func(r chi.Router) {
			r.Get("/profile", userHandler.GetProfile)
			r.Put("/profile", userHandler.UpdateProfile)
		})
	})

	return r
}
