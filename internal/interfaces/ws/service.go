package ws

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/metwallet/walletd/internal/interfaces"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

type service struct {
	address string
	bridge  *Bridge
	server  *http.Server
}

// NewService returns the service serving bridge on address. The prometheus
// metrics are served on /metrics if withMetrics is set.
func NewService(address string, bridge *Bridge, withMetrics bool) interfaces.Service {
	mux := http.NewServeMux()
	mux.Handle("/", bridge)
	if withMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	return &service{
		address: address,
		bridge:  bridge,
		server:  &http.Server{Handler: mux},
	}
}

// Start listens on the configured address and serves the client in
// background.
func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("wallet client server stopped")
		}
	}()

	log.Infof("waiting for wallet client on %s", lis.Addr())
	return nil
}

// Stop drops the client connection and shuts the server down.
func (s *service) Stop() {
	if err := s.bridge.Close(); err != nil {
		log.WithError(err).Warn("failed to close client connection")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to stop wallet client server")
	}
}
