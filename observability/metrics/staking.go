package metrics

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"stakevault/core/events"
)

type StakingMetrics struct {
	operations  *prometheus.CounterVec
	rewardsPaid prometheus.Counter
	shortfalls  prometheus.Counter
	reserveWei  prometheus.Gauge
}

var (
	stakingOnce     sync.Once
	stakingRegistry *StakingMetrics
)

func Staking() *StakingMetrics {
	stakingOnce.Do(func() {
		stakingRegistry = &StakingMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "staking_operations_total",
				Help: "Count of completed staking operations by type.",
			}, []string{"op"}),
			rewardsPaid: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "staking_rewards_paid_wei_total",
				Help: "Cumulative reward payouts in wei.",
			}),
			shortfalls: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "staking_reserve_shortfalls_total",
				Help: "Count of payouts limited by reserve depletion.",
			}),
			reserveWei: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "staking_reserve_wei",
				Help: "Current reward reserve balance in wei.",
			}),
		}
		prometheus.MustRegister(
			stakingRegistry.operations,
			stakingRegistry.rewardsPaid,
			stakingRegistry.shortfalls,
			stakingRegistry.reserveWei,
		)
	})
	return stakingRegistry
}

func (m *StakingMetrics) ObserveOperation(op string) {
	if m == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	m.operations.WithLabelValues(op).Inc()
}

func (m *StakingMetrics) ObserveRewardPaid(amount *big.Int) {
	if m == nil {
		return
	}
	m.rewardsPaid.Add(weiToFloat(amount))
}

func (m *StakingMetrics) ObserveShortfall() {
	if m == nil {
		return
	}
	m.shortfalls.Inc()
}

func (m *StakingMetrics) SetReserve(balance *big.Int) {
	if m == nil {
		return
	}
	m.reserveWei.Set(weiToFloat(balance))
}

// weiToFloat lossily converts a wei amount for metric export. Exactness is not
// required here; the ledger remains the source of truth.
func weiToFloat(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}

// Observer bridges ledger events into the prometheus registry. It satisfies
// the events.Emitter interface so it can be fanned in alongside other
// subscribers.
type Observer struct{}

// Emit implements events.Emitter.
func (Observer) Emit(event events.Event) {
	m := Staking()
	switch e := event.(type) {
	case events.StakeCreated:
		m.ObserveOperation("stake")
	case events.StakeWithdrawn:
		m.ObserveOperation("unstake")
		m.ObserveRewardPaid(e.RewardPaid)
	case events.RewardClaimed:
		m.ObserveOperation("claim")
		m.ObserveRewardPaid(e.Paid)
	case events.ReserveShortfall:
		m.ObserveShortfall()
	case events.ReserveFunded:
		m.ObserveOperation("fund")
		m.SetReserve(e.Balance)
	case events.ReserveWithdrawn:
		m.ObserveOperation("emergencyWithdraw")
		m.SetReserve(e.Balance)
	}
}
