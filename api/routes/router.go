package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rimae/rimae-backend/api/controllers"
	"github.com/rimae/rimae-backend/api/middleware"
	"github.com/rimae/rimae-backend/internal/cart"
	"github.com/rimae/rimae-backend/internal/catalog"
	"github.com/rimae/rimae-backend/internal/coupons"
	"github.com/rimae/rimae-backend/internal/wishlist"
	"github.com/rimae/rimae-backend/pkg/config"
	"github.com/rimae/rimae-backend/pkg/db"
	"github.com/rimae/rimae-backend/pkg/logger"
	"github.com/rimae/rimae-backend/pkg/metrics"
	"github.com/rimae/rimae-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	cartService cart.Service,
	catalogService catalog.Service,
	wishlistService wishlist.Service,
	couponService coupons.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
		middleware.Logging(logg, httpMetrics),
	)

	deps := map[string]controllers.Pinger{}
	if dbP != nil {
		deps["database"] = dbP
	}

	var (
		idempotency = func(next http.Handler) http.Handler { return next }
		couponLimit = func(next http.Handler) http.Handler { return next }
	)
	if redisClient != nil {
		deps["redis"] = redisClient
		rules := middleware.IdempotencyRules(cfg.Cart.IdempotencyTTL, cfg.Coupons.IdempotencyTTL)
		idempotency = middleware.Idempotency(redisClient, rules, logg)
		couponPolicy := middleware.NewRateLimitPolicy("coupon_apply", cfg.RateLimit.CouponWindow, cfg.RateLimit.CouponLimit)
		couponLimit = middleware.SessionRateLimit(couponPolicy, redisClient, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps, logg))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Post("/pricing/quote", controllers.PricingQuote(cartService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductsList(catalogService, logg))
		r.Get("/products/{slug}", controllers.ProductGet(catalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
				r.With(idempotency).Post("/items", controllers.CartAddItem(cartService, logg))
				r.Patch("/items", controllers.CartUpdateItem(cartService, logg))
				r.Delete("/items", controllers.CartRemoveItem(cartService, logg))
				r.With(couponLimit).Post("/coupon", controllers.CartApplyCoupon(cartService, logg))
				r.Delete("/coupon", controllers.CartRemoveCoupon(cartService, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistGet(wishlistService, logg))
				r.Put("/{productId}", controllers.WishlistAdd(wishlistService, logg))
				r.Delete("/{productId}", controllers.WishlistRemove(wishlistService, logg))
			})
		})
	})

	r.Route("/api/admin/v1/coupons", func(r chi.Router) {
		r.Get("/", controllers.AdminCouponsList(couponService, logg))
		r.With(idempotency).Post("/", controllers.AdminCouponCreate(couponService, logg))
		r.Get("/{code}", controllers.AdminCouponGet(couponService, logg))
		r.Put("/{code}", controllers.AdminCouponUpdate(couponService, logg))
		r.Delete("/{code}", controllers.AdminCouponDelete(couponService, logg))
	})

	return r
}
