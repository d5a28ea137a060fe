package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ruteri/tee-wallet-runtime/api/teehandler"
	"github.com/ruteri/tee-wallet-runtime/cmd/flags"
	"github.com/ruteri/tee-wallet-runtime/common"
	"github.com/ruteri/tee-wallet-runtime/httpserver"
	"github.com/ruteri/tee-wallet-runtime/metrics"
	"github.com/ruteri/tee-wallet-runtime/storage"
	"github.com/ruteri/tee-wallet-runtime/teeruntime"
	"github.com/urfave/cli/v2"
)

var flagListenAddr = &cli.StringFlag{
	Name:  "listen-addr",
	Value: "127.0.0.1:3030",
	Usage: "address to listen on for API",
}

var flagStore = &cli.StringSliceFlag{
	Name:  "store",
	Usage: "wallet store URI, repeatable (file://, s3://, vault://, memory://)",
}

func main() {
	cliFlags := []cli.Flag{flagListenAddr, flagStore, flags.LogServiceFlagFn("tee-service")}
	cliFlags = append(cliFlags, flags.LogFlags...)
	cliFlags = append(cliFlags, flags.BackendFlags...)
	cliFlags = append(cliFlags, flags.ServerFlags...)

	app := &cli.App{
		Name:  "teeservice",
		Usage: "Serve TEE wallet operations to remote backends",
		Flags: cliFlags,
		Action: func(cCtx *cli.Context) error {
			cfg, err := flags.LoadConfig(cCtx)
			if err != nil {
				return err
			}
			if cCtx.IsSet(flagListenAddr.Name) {
				cfg.Server.ListenAddr = cCtx.String(flagListenAddr.Name)
			}
			if cCtx.IsSet(flagStore.Name) {
				cfg.Storage.URIs = cCtx.StringSlice(flagStore.Name)
			}
			// Operations are executed here, never forwarded
			cfg.Backend.Development = false

			logger := flags.SetupLogger(cCtx, cfg.Logging)

			metricsSrv, err := metrics.New(common.PackageName, cfg.Server.MetricsAddr)
			if err != nil {
				logger.Error("Failed to create metrics server", "err", err)
				return err
			}

			factory := flags.NewFactory(cfg.Backend, logger)
			rt := teeruntime.Setup(factory, logger, metricsSrv.Operations())

			ctx := context.Background()
			if err := flags.ConfigureRuntime(ctx, rt, factory, cfg.Backend); err != nil {
				logger.Error("Failed to configure TEE backend", "err", err)
				return err
			}

			if _, err := rt.Initialize(ctx); err != nil {
				logger.Warn("TEE backend not initialized, clients must call initialize", "err", err)
			}

			status, err := rt.Status(ctx)
			if err == nil {
				logger.Info("TEE backend ready", "backend", status.BackendName, "available", status.Available, "version", status.Version)
			}

			storeFactory := storage.NewWalletStoreFactory(logger)
			store, err := storeFactory.CreateMultiStore(cfg.Storage.StoreLocations())
			if err != nil {
				logger.Error("Failed to create wallet store", "err", err)
				return err
			}
			logger.Info("Recording wallets", "store", store.LocationURI())

			handler := teehandler.NewHandler(rt, store, logger)

			server, err := httpserver.New(flags.ConfigureServer(cfg, logger), handler, metricsSrv)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			logger.Info("Starting server")
			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
