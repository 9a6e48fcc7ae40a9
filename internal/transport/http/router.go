// Пакет собирает HTTP-роутер tours-service: chi, мидлвары
// (recover/request-id/logging/timeout), публичные и защищённые маршруты.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pribylovaa/go-tour-booking/internal/config"
	"github.com/pribylovaa/go-tour-booking/internal/models"
	"github.com/pribylovaa/go-tour-booking/internal/query"
	"github.com/pribylovaa/go-tour-booking/internal/service"
	"github.com/pribylovaa/go-tour-booking/internal/transport/http/handlers"
	"github.com/pribylovaa/go-tour-booking/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, cfg *config.Config, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(cfg.Env),     // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Регистрация маршрутов.
	if cfg.HTTP.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, svc, cfg)
		root.Mount(cfg.HTTP.BasePath, sub)
		return root
	}

	registerRoutes(root, svc, cfg)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, svc *service.Service, cfg *config.Config) {
	h := handlers.New(svc, cfg)

	limits := query.Limits{Default: cfg.Limits.Default, Max: cfg.Limits.Max}
	env := cfg.Env

	protect := middleware.Protect(svc, cfg.Auth.CookieName, env)
	staffOnly := middleware.RequireRoles(env, models.RoleAdmin, models.RoleLeadGuide)
	adminOnly := middleware.RequireRoles(env, models.RoleAdmin)
	usersOnly := middleware.RequireRoles(env, models.RoleUser)

	tours := handlers.NewResource(svc.Tours(), limits, env,
		handlers.WithBaseScope[models.Tour]("secret", false),
	)
	reviews := handlers.NewResource(svc.Reviews(), limits, env,
		handlers.WithAncestor[models.Review]("tourID", "tour_id", parseOID),
	)
	users := handlers.NewResource(svc.Users(), limits, env)
	bookings := handlers.NewResource(svc.Bookings(), limits, env)

	// auth
	r.Post("/auth/signup", h.SignUp)
	r.Post("/auth/login", h.LogIn)
	r.Post("/auth/forgot-password", h.ForgotPassword)
	r.Patch("/auth/reset-password/{token}", h.ResetPassword)
	r.With(protect).Patch("/auth/update-password", h.UpdatePassword)

	// tours
	r.Get("/tours", tours.List)
	r.Get("/tours/{id}", tours.GetByID)
	r.With(protect, staffOnly).Post("/tours", tours.Create)
	r.With(protect, staffOnly).Patch("/tours/{id}", tours.Update)
	r.With(protect, staffOnly).Delete("/tours/{id}", tours.Delete)

	// reviews (вложенный list/create + плоские мутации)
	r.Get("/tours/{tourID}/reviews", reviews.List)
	r.With(protect, usersOnly).Post("/tours/{tourID}/reviews", h.CreateReview)
	r.Get("/reviews/{id}", reviews.GetByID)
	r.With(protect, middleware.RequireRoles(env, models.RoleUser, models.RoleAdmin)).
		Patch("/reviews/{id}", h.UpdateReview)
	r.With(protect, middleware.RequireRoles(env, models.RoleUser, models.RoleAdmin)).
		Delete("/reviews/{id}", h.DeleteReview)

	// профиль текущего пользователя
	r.With(protect).Get("/users/me", h.Me)
	r.With(protect).Patch("/users/me", h.UpdateMe)
	r.With(protect).Delete("/users/me", h.DeleteMe)
	r.With(protect).Post("/users/me/photo/presign", h.PhotoPresign)
	r.With(protect).Post("/users/me/photo/confirm", h.PhotoConfirm)

	// users (админские операции; создание — только через signup)
	r.With(protect, adminOnly).Get("/users", users.List)
	r.With(protect, adminOnly).Get("/users/{id}", users.GetByID)
	r.With(protect, adminOnly).Patch("/users/{id}", users.Update)
	r.With(protect, adminOnly).Delete("/users/{id}", users.Delete)

	// bookings
	r.With(protect).Post("/bookings/checkout/{tourID}", h.Checkout)
	r.With(protect).Get("/bookings/checkout-complete", h.CheckoutComplete)
	r.With(protect, staffOnly).Get("/bookings", bookings.List)
	r.With(protect, staffOnly).Get("/bookings/{id}", bookings.GetByID)
	r.With(protect, staffOnly).Patch("/bookings/{id}", bookings.Update)
	r.With(protect, staffOnly).Delete("/bookings/{id}", bookings.Delete)
}

// parseOID — hex-идентификатор родительского ресурса в ObjectID.
func parseOID(raw string) (any, error) {
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, err
	}
	return oid, nil
}
