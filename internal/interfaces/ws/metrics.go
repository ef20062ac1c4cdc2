package ws

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK       = "ok"
	resultError    = "error"
	resultRejected = "rejected"
)

var (
	clientEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "walletd",
		Name:      "client_events_total",
		Help:      "Events pushed by the wallet client, by tag and result.",
	}, []string{"event", "result"})

	clientCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "walletd",
		Name:      "client_calls_total",
		Help:      "Requests made to the wallet client, by method and result.",
	}, []string{"method", "result"})

	clientCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "walletd",
		Name:      "client_call_duration_seconds",
		Help:      "Time taken by the wallet client to answer a request.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	servedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "walletd",
		Name:      "served_requests_total",
		Help:      "Requests made by the wallet client to the daemon, by method and result.",
	}, []string{"method", "result"})

	clientConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "walletd",
		Name:      "client_connected",
		Help:      "Whether the wallet client is connected.",
	})
)

func resultOf(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}
