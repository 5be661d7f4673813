package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gadgetbay/gadgetbay-backend/api/controllers"
	"github.com/gadgetbay/gadgetbay-backend/api/middleware"
	"github.com/gadgetbay/gadgetbay-backend/internal/admins"
	"github.com/gadgetbay/gadgetbay-backend/internal/interactions"
	"github.com/gadgetbay/gadgetbay-backend/internal/orders"
	"github.com/gadgetbay/gadgetbay-backend/internal/products"
	"github.com/gadgetbay/gadgetbay-backend/internal/users"
	"github.com/gadgetbay/gadgetbay-backend/internal/videos"
	"github.com/gadgetbay/gadgetbay-backend/pkg/blob"
	"github.com/gadgetbay/gadgetbay-backend/pkg/config"
	"github.com/gadgetbay/gadgetbay-backend/pkg/db"
	"github.com/gadgetbay/gadgetbay-backend/pkg/logger"
	"github.com/gadgetbay/gadgetbay-backend/pkg/metrics"
	"github.com/gadgetbay/gadgetbay-backend/pkg/redis"
)

// Deps bundles everything the router mounts. Redis and metrics are optional;
// the routes that need them degrade to pass-through when absent.
type Deps struct {
	DB             *db.Client
	Redis          *redis.Client
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
	BlobStore      *blob.Store

	Users        users.Service
	Admins       admins.Service
	Products     products.Service
	Orders       orders.Service
	Interactions interactions.Service
	Videos       videos.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	throttle := func(policy middleware.AuthRateLimitPolicy) func(http.Handler) http.Handler {
		if deps.Redis == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.AuthRateLimit(policy, deps.Redis, logg)
	}

	r.Route("/health", func(r chi.Router) {
		probes := map[string]controllers.Pinger{"database": deps.DB}
		if deps.Redis != nil {
			probes["redis"] = deps.Redis
		}
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, probes))
	})
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// Public surface.
	r.With(throttle(registerPolicy)).Post("/register", controllers.Register(deps.Users, logg))
	r.With(throttle(loginPolicy)).Post("/login", controllers.Login(deps.Users, logg))
	r.With(throttle(loginPolicy)).Post("/admin/login", controllers.AdminLogin(deps.Admins, logg))

	r.Get("/products", controllers.ListProducts(deps.Products, logg))
	r.Get("/products/search", controllers.SearchProducts(deps.Products, logg))
	r.Get("/products/{productId}", controllers.GetProduct(deps.Products, logg))
	r.Get("/products/{productId}/comments", controllers.ListComments(deps.Interactions, logg))
	r.Get("/products/{productId}/likes", controllers.ListLikes(deps.Interactions, logg))
	r.Get("/videos/{fileId}/stream", controllers.StreamVideo(deps.Videos, logg))

	// User surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.UserAuth(cfg.JWT, logg))

		r.Put("/profile", controllers.UpdateProfile(deps.Users, logg))
		r.Put("/user-password", controllers.UpdatePassword(deps.Users, logg))

		r.Post("/orders", controllers.CreateOrder(deps.Orders, logg))
		r.Get("/orders/{orderId}", controllers.GetOrder(deps.Orders, logg))

		r.Post("/products/{productId}/comments", controllers.AddComment(deps.Interactions, logg))
		r.Post("/products/{productId}/likes", controllers.ToggleLike(deps.Interactions, logg))
		r.Delete("/products/{productId}/likes", controllers.RemoveLike(deps.Interactions, logg))
	})

	// Admin surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.AdminJWT, logg))

		r.With(middleware.RequireDeveloper(logg)).Post("/admin/create", controllers.AdminCreate(deps.Admins, logg))
		r.Put("/admin/update", controllers.AdminUpdate(deps.Admins, logg))
		r.Put("/admin/update-password", controllers.AdminUpdatePassword(deps.Admins, logg))

		r.Post("/products", controllers.CreateProduct(deps.Products, logg))
		r.Put("/products/{productId}", controllers.UpdateProduct(deps.Products, logg))
		r.Delete("/products/{productId}", controllers.DeleteProduct(deps.Products, logg))
		r.Post("/products/upload/video", controllers.UploadVideo(deps.BlobStore, cfg.Media, logg))

		r.Get("/orders", controllers.ListOrders(deps.Orders, logg))
		r.Post("/orders/{orderId}/decision", controllers.DecideOrder(deps.Orders, logg))
	})

	return r
}
