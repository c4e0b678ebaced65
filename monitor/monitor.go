// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	CommandsReceived *prometheus.CounterVec
	CommandLatency   prometheus.Histogram
	RobotPlaced      prometheus.Gauge
	WatcherSessions  prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		CommandsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_received_total",
			Help:      "Total number of robot commands received",
		}, []string{"command", "outcome"}),
		CommandLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_latency_seconds",
			Help:      "Command processing latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 10),
		}),
		RobotPlaced: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "robot_placed",
			Help:      "1 while the robot is placed on the table, 0 otherwise",
		}),
		WatcherSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watcher_sessions",
			Help:      "Number of connected state-stream watchers",
		}),
	}

	prometheus.MustRegister(
		m.CommandsReceived,
		m.CommandLatency,
		m.RobotPlaced,
		m.WatcherSessions,
	)

	return m
}

type Monitor struct {
	metrics      *Metrics
	startTime    time.Time
	requestCount int64
	mutex        sync.Mutex
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

// StartServer exposes /metrics and /debug/vars on its own listener.
func (m *Monitor) StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/vars", expvar.Handler())

	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))

	expvar.Publish("commands", expvar.Func(func() interface{} {
		m.mutex.Lock()
		defer m.mutex.Unlock()
		return m.requestCount
	}))

	go http.ListenAndServe(addr, mux)
}

func (m *Monitor) IncCommandsReceived(command, outcome string) {
	m.metrics.CommandsReceived.WithLabelValues(command, outcome).Inc()
	m.mutex.Lock()
	m.requestCount++
	m.mutex.Unlock()
}

func (m *Monitor) ObserveCommandLatency(duration time.Duration) {
	m.metrics.CommandLatency.Observe(duration.Seconds())
}

func (m *Monitor) SetRobotPlaced(placed bool) {
	if placed {
		m.metrics.RobotPlaced.Set(1)
	} else {
		m.metrics.RobotPlaced.Set(0)
	}
}

func (m *Monitor) IncWatcherSessions() {
	m.metrics.WatcherSessions.Inc()
}

func (m *Monitor) DecWatcherSessions() {
	m.metrics.WatcherSessions.Dec()
}
