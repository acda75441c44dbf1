package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"gridcert.org/internal/device"
	"gridcert.org/internal/exchange"
	"gridcert.org/internal/obs"
	"gridcert.org/internal/organization"
	"gridcert.org/internal/stream"
	"gridcert.org/internal/user"
)

// ReadyProbe checks backing-store readiness (DB ping when configured).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	users      *user.Service
	orgs       organization.Store
	devices    *device.Service
	exchange   exchange.Service
	trades     *stream.Stream
	watcher    *exchange.Watcher
	readyProbe ReadyProbe
	version    string
	tokenTTL   time.Duration
	rateBurst  int
	ratePerSec float64
}

// Options bundles the API's collaborators. Exchange and Watcher may be
// nil; Stream may be nil to disable the live trade feed.
type Options struct {
	Users      *user.Service
	Orgs       organization.Store
	Devices    *device.Service
	Exchange   exchange.Service
	Trades     *stream.Stream
	Watcher    *exchange.Watcher
	ReadyProbe ReadyProbe
	Version    string
	TokenTTL   time.Duration
	RateBurst  int
	RatePerSec float64
}

func New(opts Options) *API {
	a := &API{
		mux:        http.NewServeMux(),
		users:      opts.Users,
		orgs:       opts.Orgs,
		devices:    opts.Devices,
		exchange:   opts.Exchange,
		trades:     opts.Trades,
		watcher:    opts.Watcher,
		readyProbe: opts.ReadyProbe,
		version:    opts.Version,
		tokenTTL:   opts.TokenTTL,
		rateBurst:  opts.RateBurst,
		ratePerSec: opts.RatePerSec,
	}
	if a.exchange == nil {
		a.exchange = exchange.Disabled{}
	}
	if a.tokenTTL <= 0 {
		a.tokenTTL = 24 * time.Hour
	}
	if a.rateBurst <= 0 {
		a.rateBurst = 40
	}
	if a.ratePerSec <= 0 {
		a.ratePerSec = 20
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// accounts and sessions
	a.mux.HandleFunc("/user/register", a.handleRegister)
	a.mux.HandleFunc("/auth/login", a.handleLogin)
	a.mux.HandleFunc("/user/me", a.handleMe)
	a.mux.HandleFunc("/user/", a.handleUserByID)

	// devices
	a.mux.HandleFunc("/device/permissions", a.handleDevicePermissions)
	a.mux.HandleFunc("/device", a.handleDevices)

	// trades
	a.mux.HandleFunc("/trades", a.handleTrades)
	a.mux.HandleFunc("/trades/stream", a.handleTradeStream)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	h := a.withAuth(a.mux)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = MaxBodyBytes(h, 1<<20)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = Logging(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "gridcert-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "gridcert-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
