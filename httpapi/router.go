// Package httpapi exposes money arithmetic and the ledger over HTTP.
// Handlers return errors; the router translates them into JSON
// responses with the right status code.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/paykit/go-money/currency"
	"github.com/paykit/go-money/ledger"
	"go.uber.org/zap"
)

var defaultCorsOptions = cors.Options{
	AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE"},
	AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
	ExposedHeaders:   []string{"Link", "X-Total-Count"},
	AllowCredentials: true,
}

// API bundles the HTTP surface dependencies.
type API struct {
	log             *zap.Logger
	ledger          *ledger.Ledger
	defaultCurrency currency.Currency
	corsOptions     cors.Options
}

// Option configures the API.
type Option func(*API)

// WithCors overrides the CORS policy.
func WithCors(options cors.Options) Option {
	return func(a *API) {
		a.corsOptions = options
	}
}

// WithDefaultCurrency sets the currency used to format amounts when
// a request does not name one.
func WithDefaultCurrency(c currency.Currency) Option {
	return func(a *API) {
		a.defaultCurrency = c
	}
}

// New creates the API around a ledger.
func New(log *zap.Logger, l *ledger.Ledger, opts ...Option) *API {
	a := &API{
		log:             log,
		ledger:          l,
		defaultCurrency: currency.USD,
		corsOptions:     defaultCorsOptions,
	}

	for _, o := range opts {
		o(a)
	}

	return a
}

// handlerFunc is an http handler that can fail.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle converts a handlerFunc into an http.HandlerFunc, routing
// returned errors through HandleError.
func (a *API) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			HandleError(a.log, err, w, r)
		}
	}
}

// Router assembles the routes and middleware stack.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(a.log))
	r.Use(recoverer(a.log))
	r.Use(cors.New(a.corsOptions).Handler)

	r.Get("/healthz", a.handle(a.health))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/amounts/add", a.handle(a.addAmounts))
		r.Post("/amounts/format", a.handle(a.formatAmount))

		r.Post("/accounts", a.handle(a.createAccount))
		r.Get("/accounts/{id}", a.handle(a.getAccount))
		r.Get("/accounts/{id}/entries", a.handle(a.listEntries))
		r.Post("/accounts/{id}/deposit", a.handle(a.deposit))
		r.Post("/accounts/{id}/withdraw", a.handle(a.withdraw))

		r.Post("/transfers", a.handle(a.transfer))
	})

	return r
}
