package router

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ohyo-io/wampire/pkg/realm"
	"github.com/ohyo-io/wampire/pkg/wampmetrics"
)

// shutdownGrace bounds how long a sibling HTTP server is given to drain
// in-flight requests when ListenAndServe's context is cancelled.
const shutdownGrace = 5 * time.Second

// Router owns the set of realms a running WAMP endpoint serves, created
// lazily the first time a Hello names them.
type Router struct {
	mu     sync.Mutex
	realms map[string]*realm.Realm

	log     *slog.Logger
	metrics *wampmetrics.Metrics
}

// New constructs an empty Router. log must not be nil; metrics may be
// nil, in which case every metric update is a no-op.
func New(log *slog.Logger, metrics *wampmetrics.Metrics) *Router {
	return &Router{
		realms:  make(map[string]*realm.Realm),
		log:     log,
		metrics: metrics,
	}
}

// Open eagerly creates the named realm if it doesn't already exist, so
// it's counted in /metrics before the first Hello arrives.
func (r *Router) Open(name string) {
	r.realmFor(name)
}

// realmFor returns the named realm, creating it on first use.
func (r *Router) realmFor(name string) *realm.Realm {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rl, ok := r.realms[name]; ok {
		return rl
	}
	rl := realm.New(name)
	r.realms[name] = rl
	if r.metrics != nil {
		r.metrics.RealmOpened()
	}
	return rl
}

// RealmCount reports how many realms currently exist, exposed for
// diagnostics/tests.
func (r *Router) RealmCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.realms)
}

// Config bundles the listener addresses Router.ListenAndServe binds.
type Config struct {
	// WAMPAddr serves the WebSocket WAMP endpoint, e.g. "127.0.0.1:8090".
	WAMPAddr string
	// AdminAddr serves /metrics and /healthz, e.g. "127.0.0.1:8091".
	AdminAddr string
}

// ListenAndServe runs the WAMP WebSocket endpoint and the admin
// (metrics/health) endpoint as sibling listeners under one errgroup:
// either failing, or ctx being cancelled, shuts both down.
func (r *Router) ListenAndServe(ctx context.Context, cfg Config) error {
	wampSrv := &http.Server{Addr: cfg.WAMPAddr, Handler: r}
	adminSrv := &http.Server{Addr: cfg.AdminAddr, Handler: r.adminHandler()}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return serveUntilCancelled(ctx, wampSrv) })
	g.Go(func() error { return serveUntilCancelled(ctx, adminSrv) })

	return g.Wait()
}

func serveUntilCancelled(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (r *Router) adminHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if r.metrics != nil {
		mux.Handle("/metrics", r.metrics.Handler())
	}
	return mux
}
