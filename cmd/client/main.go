package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/carTloyal123/shoppi/internal/buildinfo"
	"github.com/carTloyal123/shoppi/internal/client/cli"
	"github.com/carTloyal123/shoppi/internal/client/client"
	"github.com/carTloyal123/shoppi/internal/client/config"
	"github.com/carTloyal123/shoppi/internal/client/credstore"
	"github.com/carTloyal123/shoppi/internal/client/directory"
	"github.com/carTloyal123/shoppi/internal/client/session"
	"github.com/carTloyal123/shoppi/internal/client/shopping"
	"github.com/carTloyal123/shoppi/internal/cryptox"
	"github.com/carTloyal123/shoppi/internal/logging"
	"github.com/joho/godotenv"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	// a missing .env is fine
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewText(os.Stderr, cfg.LogLevel)

	key, _ := cfg.StoreKeyBytes()
	store, closeStore := credstore.Open(ctx, credstore.Options{Path: cfg.StorePath, Key: key}, logger)
	defer closeStore()

	backend, err := client.NewGRPCClient(cfg.ServerEndpointAddr, cfg.RequestTimeout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer backend.Close()

	hasher, _ := cryptox.NewHasher(cfg.DigestScheme)

	orch := session.New(
		backend,
		directory.New(backend, logger),
		credstore.NewSafeStore(store, logger),
		hasher,
		logger,
		session.WithOperationTimeout(cfg.OperationTimeout),
		session.WithLocalDigestCheck(cfg.VerifyLocalDigest),
		session.WithRevalidateAfter(cfg.RevalidateAfter),
	)

	app := cli.NewApp(orch, shopping.New(backend, logger), backend, logger, os.Stdin, os.Stdout)
	app.Run(ctx, cfg.CheckInterval)
}
