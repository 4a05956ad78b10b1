package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixelastronauts/matwise-backend/api/controllers"
	"github.com/pixelastronauts/matwise-backend/api/middleware"
	"github.com/pixelastronauts/matwise-backend/internal/formulas"
	"github.com/pixelastronauts/matwise-backend/internal/pricelists"
	"github.com/pixelastronauts/matwise-backend/internal/quotes"
	"github.com/pixelastronauts/matwise-backend/pkg/config"
	"github.com/pixelastronauts/matwise-backend/pkg/db"
	"github.com/pixelastronauts/matwise-backend/pkg/logger"
	"github.com/pixelastronauts/matwise-backend/pkg/metrics"
	"github.com/pixelastronauts/matwise-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	pricingMetrics *metrics.PricingMetrics,
	quoteService quotes.Service,
	formulaService formulas.Service,
	priceListService pricelists.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	quoteLimiter := func(next http.Handler) http.Handler { return next }
	if redisClient != nil {
		policy := middleware.NewRateLimitPolicy(
			"quote",
			cfg.RateLimit.QuoteWindow,
			cfg.RateLimit.QuoteIPLimit,
		)
		quoteLimiter = middleware.RateLimit(policy, redisClient, logg)
	}

	var redisPinger redis.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(quoteLimiter)
		r.Post("/quotes", controllers.QuoteLine(quoteService, logg))
		r.Post("/formulas/preview", controllers.PreviewFormula(quoteService, logg))
		r.Post("/tax/decision", controllers.TaxDecision(cfg.Tax, pricingMetrics, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.JWT, logg))
		r.Get("/ping", controllers.AdminPing())

		r.Route("/formulas", func(r chi.Router) {
			r.Get("/", controllers.AdminFormulaList(formulaService, logg))
			r.Get("/{formulaId}", controllers.AdminFormulaGet(formulaService, logg))
			r.Post("/{formulaId}/validate", controllers.AdminFormulaValidate(formulaService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireWrite(logg))
				r.Post("/", controllers.AdminFormulaCreate(formulaService, logg))
				r.Put("/{formulaId}", controllers.AdminFormulaUpdate(formulaService, logg))
				r.Delete("/{formulaId}", controllers.AdminFormulaDelete(formulaService, logg))
				r.Post("/{formulaId}/default", controllers.AdminFormulaSetDefault(formulaService, logg))
			})
		})

		r.Route("/price-lists", func(r chi.Router) {
			r.Get("/", controllers.AdminPriceListList(priceListService, logg))
			r.Get("/{priceListId}", controllers.AdminPriceListGet(priceListService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireWrite(logg))
				r.Post("/", controllers.AdminPriceListCreate(priceListService, logg))
				r.Put("/{priceListId}", controllers.AdminPriceListUpdate(priceListService, logg))
				r.Delete("/{priceListId}", controllers.AdminPriceListDelete(priceListService, logg))
				r.Post("/{priceListId}/variants", controllers.AdminPriceListAttachVariant(priceListService, logg))
				r.Delete("/{priceListId}/variants/{variantId}", controllers.AdminPriceListDetachVariant(priceListService, logg))
			})
		})
	})

	return r
}
