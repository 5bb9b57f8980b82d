package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/dailydiet/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	HTTPRecorder      middleware.HTTPRecorder

	// 運用エンドポイント
	Health         Pinger
	MetricsHandler http.Handler

	// ユーザー
	UserService UserServiceInterface
	UserConfig  UserHandlerConfig

	// 食事
	MealService MealServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP → Logging → Metrics → Recovery → SecurityHeaders → CORS
//
// /meals配下はさらに Session → RateLimit を通す。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.HTTPRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPRecorder))
	}
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	userHandler := NewUserHandler(deps.UserService, deps.UserConfig)
	mealHandler := NewMealHandler(deps.MealService)

	// --- 認証不要のルート ---

	if deps.Health != nil {
		r.Get("/health", NewHealthHandler(deps.Health))
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Register)
		r.Post("/login", userHandler.Login)
	})

	// --- 認証が必要なルート ---
	r.Route("/meals", func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware())
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		r.Post("/", mealHandler.Create)
		r.Get("/", mealHandler.List)

		// 静的パスは{id}より優先される
		r.Get("/metrics", mealHandler.Metrics)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", mealHandler.Get)
			r.Put("/", mealHandler.Update)
			r.Delete("/", mealHandler.Delete)
		})
	})

	return r
}
