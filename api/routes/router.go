package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goupromo/goupromo-backend/api/controllers"
	"github.com/goupromo/goupromo-backend/api/middleware"
	"github.com/goupromo/goupromo-backend/internal/auth"
	"github.com/goupromo/goupromo-backend/internal/items"
	"github.com/goupromo/goupromo-backend/internal/restaurants"
	"github.com/goupromo/goupromo-backend/pkg/config"
	"github.com/goupromo/goupromo-backend/pkg/logger"
	"github.com/goupromo/goupromo-backend/pkg/metrics"
	"github.com/goupromo/goupromo-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on. Redis,
// metrics and the gatherer are optional.
type RouterParams struct {
	Config            *config.Config
	Logger            *logger.Logger
	DB                controllers.Pinger
	Redis             *redis.Client
	AuthService       auth.Service
	ItemService       items.Service
	RestaurantService restaurants.Service
	HTTPMetrics       *metrics.HTTPMetrics
	Gatherer          prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	var (
		redisPinger controllers.Pinger
		idemStore   redis.IdempotencyStore
	)
	if p.Redis != nil {
		redisPinger = p.Redis
		idemStore = p.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	requireAuth := middleware.Auth(p.AuthService, logg)
	idempotent := middleware.Idempotency(idemStore, logg)

	r.Get("/", controllers.Root())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, redisPinger))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Post("/signup", controllers.AuthSignup(p.AuthService, logg))
	r.Post("/login", controllers.AuthLogin(p.AuthService, logg))
	r.With(requireAuth).Get("/users/me", controllers.CurrentUser(logg))

	r.Route("/items", func(r chi.Router) {
		r.Get("/", controllers.ItemsList(p.ItemService, logg))
		r.With(idempotent).Post("/", controllers.ItemsCreate(p.ItemService, logg))
	})

	r.Route("/restaurants", func(r chi.Router) {
		r.Get("/", controllers.RestaurantsList(p.RestaurantService, logg))
		r.Get("/{restaurantId}/items", controllers.RestaurantItems(p.ItemService, logg))
	})

	r.Route("/restaurant", func(r chi.Router) {
		r.With(requireAuth, idempotent).Post("/register/{userId}", controllers.RestaurantRegister(p.RestaurantService, logg))
		r.Get("/user/{userId}", controllers.RestaurantByUser(p.RestaurantService, logg))
	})

	return r
}
