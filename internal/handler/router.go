package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/custdesk/internal/metrics"
	"github.com/hitoshi/custdesk/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// メトリクス（nilの場合は記録・公開しない）
	Metrics         metrics.MetricsCollector
	MetricsGatherer prometheus.Gatherer

	// ヘルスチェック対象のストア
	Store Pinger

	// 認証・アカウント
	AuthService AuthServiceInterface

	// 顧客
	CustomerService CustomerServiceInterface

	// 歯科医院
	DentalService DentalServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Logging → Recovery → SecurityHeaders → CORS
//	  公開フォーム:   → RateLimit(PublicMiddleware)
//	  ログイン後API: → RequireUser → RateLimit(GeneralMiddleware)
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger, deps.Metrics))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService)
	accountHandler := NewAccountHandler(deps.AuthService)
	customerHandler := NewCustomerHandler(deps.CustomerService)
	dentalHandler := NewDentalHandler(deps.DentalService)
	healthHandler := NewHealthHandler(deps.Store)

	// --- 認証不要のルート ---

	r.Get("/health", healthHandler.Health)
	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)

		r.Group(func(r chi.Router) {
			r.Use(deps.RateLimiter.PublicMiddleware())
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/reset-password", authHandler.ResetPassword)
		})
	})

	r.Route("/dental", func(r chi.Router) {
		// 掲載情報
		r.Get("/services", dentalHandler.ListServices)
		r.Get("/team", dentalHandler.ListTeam)
		r.Get("/contact-info", dentalHandler.ContactInfo)
		r.Get("/time-slots", dentalHandler.ListTimeSlots)

		// 公開フォーム
		r.Group(func(r chi.Router) {
			r.Use(deps.RateLimiter.PublicMiddleware())
			r.Post("/appointments", dentalHandler.RequestAppointment)
			r.Post("/contact", dentalHandler.SubmitContact)
		})

		// 予約管理（ログイン後）
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewRequireUserMiddleware(deps.AuthService))
			r.Use(deps.RateLimiter.GeneralMiddleware())
			r.Get("/appointments", dentalHandler.ListAppointments)
			r.Get("/appointments/{id}", dentalHandler.GetAppointment)
			r.Patch("/appointments/{id}/status", dentalHandler.UpdateAppointmentStatus)
		})
	})

	// --- ログインが必要なルート ---
	// ミドルウェアスタック: RequireUser → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRequireUserMiddleware(deps.AuthService))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 顧客管理
		r.Route("/api/customers", func(r chi.Router) {
			r.Get("/", customerHandler.ListCustomers)
			r.Post("/", customerHandler.CreateCustomer)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", customerHandler.GetCustomer)
				r.Put("/", customerHandler.UpdateCustomer)
				r.Delete("/", customerHandler.DeleteCustomer)
			})
		})

		r.Get("/api/dashboard/stats", customerHandler.Stats)

		// アカウント設定
		r.Route("/api/account", func(r chi.Router) {
			r.Patch("/profile", accountHandler.UpdateProfile)
			r.Put("/password", accountHandler.ChangePassword)
		})
	})

	return r
}
