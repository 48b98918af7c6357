package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/worker"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/usecase"
)

// RateLimiter is the slice of the redis limiter the storefront needs.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	catalogUC    usecase.CatalogUseCase
	purchaseUC   usecase.PurchaseUseCase
	activationUC usecase.ActivationUseCase
	ledgerUC     usecase.LedgerUseCase
	adminUC      usecase.AdminUseCase
	statsUC      usecase.StatsUseCase
	monitor      usecase.SessionMonitorUseCase

	auth    *AuthManager
	limiter RateLimiter
	pool    *worker.Pool
	log     *zerolog.Logger

	rateLimit  int
	rateWindow time.Duration
}

func NewServer(
	catalogUC usecase.CatalogUseCase,
	purchaseUC usecase.PurchaseUseCase,
	activationUC usecase.ActivationUseCase,
	ledgerUC usecase.LedgerUseCase,
	adminUC usecase.AdminUseCase,
	statsUC usecase.StatsUseCase,
	monitor usecase.SessionMonitorUseCase,
	auth *AuthManager,
	limiter RateLimiter,
	pool *worker.Pool,
	logger *zerolog.Logger,
	rateLimit int,
	rateWindow time.Duration,
) *Server {
	l := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		catalogUC:    catalogUC,
		purchaseUC:   purchaseUC,
		activationUC: activationUC,
		ledgerUC:     ledgerUC,
		adminUC:      adminUC,
		statsUC:      statsUC,
		monitor:      monitor,
		auth:         auth,
		limiter:      limiter,
		pool:         pool,
		log:          &l,
		rateLimit:    rateLimit,
		rateWindow:   rateWindow,
	}
}

// Routes builds the full router: the public storefront API plus the
// JWT-guarded console API.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chiMiddleware(TraceID()))
	r.Use(chiMiddleware(Recover(s.log)))
	r.Use(chiMiddleware(RequestLog(s.log)))
	r.Use(chiMiddleware(Timeout(30 * time.Second)))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/packages", s.handlePackagesList)
		r.Post("/purchases", s.handlePurchaseInitiate)
		r.Post("/purchases/confirm", s.handlePurchaseConfirm)
		r.Get("/purchases/{id}", s.handlePurchaseGet)
		r.Post("/activate", s.handleActivate)
	})

	r.Route("/admin/api/v1", func(r chi.Router) {
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(RequireAdmin(s.auth)))

			r.Post("/logout", s.handleLogout)
			r.Get("/stats", s.handleStats)

			r.Get("/codes", s.handleCodesList)
			r.Post("/codes/{id}/notify", s.handleCodeNotify)

			r.Get("/packages", s.handlePackagesList)
			r.Post("/packages", s.handlePackageCreate)
			r.Put("/packages/{id}", s.handlePackageUpdate)
			r.Delete("/packages/{id}", s.handlePackageDelete)

			r.Get("/sessions", s.handleSessionsList)
			r.Post("/sessions/{id}/disconnect", s.handleSessionDisconnect)
		})
	})

	return r
}

func chiMiddleware(m Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return m(next) }
}
