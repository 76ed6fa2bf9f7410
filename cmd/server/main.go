package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/api"
	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/core/service"
	"github.com/epicevents/crm/internal/infrastructure/config"
	"github.com/epicevents/crm/internal/infrastructure/db/memory"
	redisdb "github.com/epicevents/crm/internal/infrastructure/db/redis"
	"github.com/epicevents/crm/internal/infrastructure/db/store"
	"github.com/epicevents/crm/internal/infrastructure/http/handlers"
	"github.com/epicevents/crm/internal/infrastructure/notify"
	"github.com/epicevents/crm/internal/infrastructure/security"
	"github.com/epicevents/crm/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "crm"})
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "crm",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	revocations, checks, closeRevocations, err := openRevocations(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRevocations()
	for name, check := range st.Checks {
		checks[name] = check
	}

	if cfg.JWTSecret == config.DevJWTSecret {
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
	}
	hasher := security.NewBcryptHasher(0)
	tokens := security.NewJWTAuthenticator(cfg.JWTSecret, revocations, logger.Component("jwt"))

	sinks := append([]ports.EventSink{notify.NewLogSink(log)}, st.Sinks...)
	dispatcher := notify.NewDispatcher(cfg.Notify.Workers, cfg.Notify.Buffer, logger.Component("notify"), sinks...)
	dispatcher.Start(context.WithoutCancel(ctx))
	defer dispatcher.Close()

	svcLog := logger.Component("service")
	e := api.NewRouter(api.Services{
		Auth:      service.NewAuthService(st.Accounts, hasher, tokens, cfg.TokenTTL(), svcLog),
		Accounts:  service.NewAccountService(st.Accounts, hasher, dispatcher, svcLog),
		Clients:   service.NewClientService(st.Clients, svcLog),
		Contracts: service.NewContractService(st.Contracts, st.Clients, dispatcher, svcLog),
		Events:    service.NewEventService(st.Events, st.Contracts, st.Clients, st.Accounts, svcLog),
	}, checks, logger.Component("http"))

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openRevocations picks Redis when REDIS_ADDR is set and falls back to the
// process-local list otherwise.
func openRevocations(ctx context.Context, cfg *config.Config, log zerolog.Logger) (security.RevocationList, map[string]handlers.Check, func(), error) {
	checks := map[string]handlers.Check{}
	if cfg.Redis.Addr == "" {
		log.Warn().Msg("REDIS_ADDR not set, token revocations are kept in memory")
		return memory.NewRevocationList(), checks, func() {}, nil
	}

	rdb, err := redisdb.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, nil, err
	}
	checks["redis"] = handlers.RedisCheck(rdb)
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("close redis")
		}
	}
	return redisdb.NewRevocationList(rdb), checks, closeFn, nil
}
