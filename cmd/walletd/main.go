package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/metwallet/walletd/internal/config"
	"github.com/metwallet/walletd/internal/core/application/forms"
	"github.com/metwallet/walletd/internal/core/application/loading"
	"github.com/metwallet/walletd/internal/core/application/store"
	"github.com/metwallet/walletd/internal/core/application/toast"
	"github.com/metwallet/walletd/internal/core/application/wallet"
	"github.com/metwallet/walletd/internal/core/ports"
	dbbadger "github.com/metwallet/walletd/internal/infrastructure/storage/db/badger"
	"github.com/metwallet/walletd/internal/infrastructure/storage/db/inmemory"
	"github.com/metwallet/walletd/internal/interfaces/ws"
	"github.com/metwallet/walletd/pkg/stats"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	chains, err := config.GetChainsConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to read chains config")
	}

	repo, err := newStateRepository()
	if err != nil {
		log.WithError(err).Fatal("failed to open state repository")
	}

	timeout := config.GetMilliseconds(config.ClientRequestTimeoutKey)

	st := store.NewStore()
	bridge := ws.NewBridge(st, timeout)
	client := ws.NewClient(bridge, chains)

	walletSvc, err := wallet.NewService(client, st, repo, timeout)
	if err != nil {
		log.WithError(err).Fatal("failed to create wallet service")
	}
	loadingSvc := loading.NewService(st, config.GetMilliseconds(config.LoadingCadenceKey))
	toasts := toast.New(
		config.GetMilliseconds(config.ToastAutoCloseKey),
		func(stack []toast.Group) {
			if err := bridge.Notify(ws.ToastsEvent, stack); err != nil &&
				!errors.Is(err, ws.ErrNotConnected) {
				log.WithError(err).Warn("failed to push toasts to client")
			}
		},
	)
	stopWatching := toasts.Watch(st)
	formsManager := forms.NewManager(forms.Deps{
		Client:         client,
		Store:          st,
		EstimateDelay:  config.GetMilliseconds(config.EstimateDebounceKey),
		RequestTimeout: timeout,
	})

	ws.NewHandler(walletSvc, formsManager, toasts, loadingSvc).Register(bridge)

	wsSvc := ws.NewService(
		config.GetString(config.ListenAddressKey), bridge,
		config.GetBool(config.EnableMetricsKey),
	)
	if err := wsSvc.Start(); err != nil {
		log.WithError(err).Fatal("failed to listen for wallet client")
	}

	ctx, cancel := context.WithCancel(context.Background())
	if interval := config.GetMilliseconds(config.StatsIntervalKey); interval > 0 {
		stats.EnableMemoryStatistics(ctx, interval)
	}
	initErr := make(chan error, 1)
	go func() {
		if err := walletSvc.Init(ctx); err != nil {
			initErr <- err
			return
		}
		loadingSvc.Start()
		log.Info("wallet initialized, loading data")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-sigChan:
		log.Info("shutting down")
	case err := <-initErr:
		log.WithError(err).Error("failed to initialize wallet")
	case err := <-bridge.Err():
		log.WithError(err).Error("state is inconsistent, shutting down")
	}
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()

	formsManager.CloseAll()
	stopWatching()
	toasts.Close()
	loadingSvc.Stop()
	// Stop also releases the state repository.
	if err := walletSvc.Stop(stopCtx); err != nil {
		log.WithError(err).Warn("failed to stop wallet service")
	}
	wsSvc.Stop()
	log.Debug("exiting")
}

func newStateRepository() (ports.StateRepository, error) {
	switch config.GetString(config.DBTypeKey) {
	case config.DBInMemory:
		return inmemory.NewStateRepositoryImpl(), nil
	default:
		return dbbadger.NewStateRepositoryImpl(
			config.GetDbDir(), log.WithField("component", "badger"),
		)
	}
}
