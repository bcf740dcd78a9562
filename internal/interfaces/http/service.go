package httpinterface

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/application"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	interfaces "github.com/tdex-network/tdex-vault/internal/interfaces"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const (
	shutdownTimeout   = 10 * time.Second
	rateLimiterPrune  = time.Minute
	readHeaderTimeout = 10 * time.Second
)

type ServiceOpts struct {
	Port int
	// RateLimit is the number of requests per second allowed to each remote
	// host and to each verified signer. Zero disables rate limiting.
	RateLimit      int
	RateLimitBurst int

	VaultSvc       application.VaultService
	TransactionSvc application.TransactionLogService
	AccountSvc     application.AccountService
	PubSubSvc      application.PubSubService
	EventStream    ports.EventStream

	// Operator is the only key allowed to manage webhooks. If zero, webhook
	// management is rejected for everyone.
	Operator solana.PublicKey

	// Now defaults to time.Now and is used to check signature timestamps.
	Now func() time.Time
}

func (o ServiceOpts) validate() error {
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("invalid port %d", o.Port)
	}
	if o.VaultSvc == nil {
		return fmt.Errorf("vault app service must not be null")
	}
	if o.TransactionSvc == nil {
		return fmt.Errorf("transaction log app service must not be null")
	}
	if o.AccountSvc == nil {
		return fmt.Errorf("account app service must not be null")
	}
	if o.PubSubSvc == nil {
		return fmt.Errorf("pubsub app service must not be null")
	}
	if o.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	return nil
}

type service struct {
	opts    ServiceOpts
	server  *http.Server
	limiter *rateLimiter
	replay  *replayGuard
	stopCh  chan struct{}
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	var limiter *rateLimiter
	if opts.RateLimit > 0 {
		limiter = newRateLimiter(opts.RateLimit, opts.RateLimitBurst)
	}

	replay, err := newReplayGuard()
	if err != nil {
		return nil, fmt.Errorf("failed to open replay cache: %s", err)
	}
	if opts.Operator.IsZero() {
		log.Warn("no operator key configured, webhook management is disabled")
	}

	return &service{
		opts:    opts,
		limiter: limiter,
		replay:  replay,
		stopCh:  make(chan struct{}),
	}, nil
}

func (s *service) Start() error {
	addr := fmt.Sprintf(":%d", s.opts.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	h2s := &http2.Server{}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(newRouter(s.opts, s.limiter, s.replay), h2s),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		if err := s.server.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http server stopped unexpectedly")
		}
	}()
	if s.limiter != nil {
		go s.pruneLimiters()
	}

	log.Infof("http interface is listening on %s", addr)
	return nil
}

func (s *service) Stop() {
	if s.server == nil {
		s.closeReplayGuard()
		return
	}
	close(s.stopCh)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop http interface")
	}
	s.closeReplayGuard()
	log.Debug("disabled http interface")
}

func (s *service) closeReplayGuard() {
	if err := s.replay.close(); err != nil {
		log.WithError(err).Warn("failed to close replay cache")
	}
}

func (s *service) pruneLimiters() {
	ticker := time.NewTicker(rateLimiterPrune)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.limiter.prune()
		}
	}
}

// newRouter returns the handler serving the vault HTTP API. A nil limiter
// disables rate limiting.
func newRouter(
	opts ServiceOpts, limiter *rateLimiter, replay *replayGuard,
) http.Handler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	h := &handler{
		vaultSvc:   opts.VaultSvc,
		txlogSvc:   opts.TransactionSvc,
		accountSvc: opts.AccountSvc,
		pubsubSvc:  opts.PubSubSvc,
	}
	m := newMetrics()
	signed := requireSignature(now, replay)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(m.handler)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(api chi.Router) {
		if limiter != nil {
			api.Use(limiter.hostHandler)
		}

		api.Get("/vaults", h.listVaults)
		api.Get("/vaults/{address}", h.getVault)
		api.Get("/vaults/{address}/records", h.listRecords)
		api.Get("/authorities/{address}/vault", h.getVaultByAuthority)
		api.Get("/records/{address}", h.getRecord)
		api.Get("/accounts/{address}", h.getBalance)
		if opts.EventStream != nil {
			events := &eventStreamHandler{opts.EventStream}
			api.Get("/events", events.serveEvents)
		}

		api.Group(func(auth chi.Router) {
			auth.Use(signed)
			if limiter != nil {
				auth.Use(limiter.signerHandler)
			}
			auth.Post("/vaults", h.initializeVault)
			auth.Delete("/vaults/{address}", h.closeVault)
			auth.Post("/vaults/{address}/deposit", h.deposit)
			auth.Post("/vaults/{address}/withdraw", h.withdraw)
			auth.Post("/vaults/{address}/pause", h.pause)
			auth.Post("/vaults/{address}/resume", h.resume)
			auth.Post("/vaults/{address}/records", h.logTransaction)
			auth.Post("/accounts/{address}/airdrop", h.airdrop)

			auth.Group(func(op chi.Router) {
				op.Use(requireOperator(opts.Operator))
				op.Post("/webhooks", h.addWebhook)
				op.Get("/webhooks", h.listWebhooks)
				op.Delete("/webhooks/{id}", h.removeWebhook)
			})
		})
	})

	return r
}
