// Package metrics defines the prometheus collectors exposed by sa430ctl's
// serve subcommand: sweep duration, transaction outcomes, and the number of
// devices currently visible to a Scanner.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// SweepDuration observes how long one GET_SPEC_NO_INIT sweep takes to
	// complete, labeled by the serial port it ran against.
	SweepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "sa430_sweep_duration_seconds",
			Help: "Duration of spectrum sweep acquisitions",
		},
		[]string{"port"},
	)

	// TransactionsTotal counts session outcomes as they are observed: ack,
	// nack, timeout, frame_error, or transport_error. An ACK is counted when
	// it arrives, so a transaction that is acknowledged and then fails on a
	// later frame is counted under both ack and the failure outcome.
	TransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sa430_transactions_total",
			Help: "Session transactions by terminal outcome",
		},
		[]string{"outcome"},
	)

	// DiscoveredDevices reports how many SA430 units were visible on the
	// most recent scan.
	DiscoveredDevices = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sa430_discovered_devices",
			Help: "Number of SA430 devices found by the last scan",
		},
	)
)

func init() {
	prometheus.MustRegister(SweepDuration, TransactionsTotal, DiscoveredDevices)
}

// Outcome labels for TransactionsTotal.
const (
	OutcomeAck            = "ack"
	OutcomeNack           = "nack"
	OutcomeTimeout        = "timeout"
	OutcomeFrameError     = "frame_error"
	OutcomeTransportError = "transport_error"
)
