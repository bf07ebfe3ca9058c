package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestDiscoveredDevicesGauge(t *testing.T) {
	DiscoveredDevices.Set(3)
	if got := testutil.ToFloat64(DiscoveredDevices); got != 3 {
		t.Errorf("DiscoveredDevices = %v, want 3", got)
	}
}

func TestTransactionsTotalCountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(TransactionsTotal.WithLabelValues(OutcomeAck))
	TransactionsTotal.WithLabelValues(OutcomeAck).Inc()
	after := testutil.ToFloat64(TransactionsTotal.WithLabelValues(OutcomeAck))
	if after != before+1 {
		t.Errorf("TransactionsTotal[ack] = %v, want %v", after, before+1)
	}
}

func TestSweepDurationObserves(t *testing.T) {
	countBefore := testutil.CollectAndCount(SweepDuration)
	SweepDuration.WithLabelValues("/dev/ttyUSB0").Observe(0.5)
	countAfter := testutil.CollectAndCount(SweepDuration)
	if countAfter != countBefore+1 {
		t.Errorf("CollectAndCount = %d, want %d", countAfter, countBefore+1)
	}
}
