// Command create-superuser creates the first management account of an empty
// store. It refuses to run once any account exists.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/core/service"
	"github.com/epicevents/crm/internal/infrastructure/config"
	"github.com/epicevents/crm/internal/infrastructure/db/store"
	"github.com/epicevents/crm/internal/infrastructure/notify"
	"github.com/epicevents/crm/internal/infrastructure/security"
	"github.com/epicevents/crm/pkg/logger"
)

func main() {
	username := flag.String("username", "", "username of the management account")
	email := flag.String("email", "", "email of the management account")
	password := flag.String("password", "", "password (defaults to $SUPERUSER_PASSWORD)")
	flag.Parse()

	if *password == "" {
		*password = os.Getenv("SUPERUSER_PASSWORD")
	}
	if *username == "" || *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "create-superuser"})

	if cfg.StoreDriver == config.StoreMemory {
		log.Fatal().Msg("the memory store does not outlive this command, use mongo or postgres")
	}

	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer func() { _ = st.Close(ctx) }()

	accounts := service.NewAccountService(st.Accounts, security.NewBcryptHasher(0), notify.NewLogSink(log), log)
	account, err := accounts.Bootstrap(ctx, ports.CreateAccountInput{
		Username: *username,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		log.Error().Err(err).Msg("create superuser")
		_ = st.Close(ctx)
		os.Exit(1)
	}
	log.Info().Int64("account_id", account.ID).Str("username", account.Username).Msg("superuser created")
}
