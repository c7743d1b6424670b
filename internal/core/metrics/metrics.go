package metrics

import (
	"reflect"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "busmsg"

// Metrics busmsg 指标集合
//
// nil *Metrics 的所有方法都是空操作。
type Metrics struct {
	published   *prometheus.CounterVec
	failures    *prometheus.CounterVec
	dropped     prometheus.Counter
	propagated  prometheus.Counter
	busDropped  *prometheus.CounterVec
	connections prometheus.Gauge
	actions     prometheus.Gauge
	dispatch    prometheus.Histogram
}

// New 创建指标并注册到 reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		published: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_published_total",
			Help:      "Messages published on the bus after successful resolution.",
		}, []string{"action"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_failures_total",
			Help:      "Actor or target resolution failures.",
		}, []string{"stage"}),
		dropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Unrecognized events dropped because auto-propagation is off.",
		}),
		propagated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_propagated_total",
			Help:      "Unrecognized events fed into the pipeline by auto-propagation.",
		}),
		busDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_dropped_total",
			Help:      "Bus events dropped because a subscriber buffer was full.",
		}, []string{"event"}),
		connections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Connections currently bound to the action registry.",
		}),
		actions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "actions",
			Help:      "Registered actions.",
		}),
		dispatch: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_seconds",
			Help:      "Time from pipeline start to publish or error.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}

// MessagePublished 记录一条已发布消息
func (m *Metrics) MessagePublished(action string) {
	if m == nil {
		return
	}
	m.published.WithLabelValues(action).Inc()
}

// ResolveFailed 记录一次解析失败
func (m *Metrics) ResolveFailed(stage string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(stage).Inc()
}

// EventDropped 记录一个被丢弃的未识别事件
func (m *Metrics) EventDropped() {
	if m == nil {
		return
	}
	m.dropped.Inc()
}

// EventPropagated 记录一个自动传播的事件
func (m *Metrics) EventPropagated() {
	if m == nil {
		return
	}
	m.propagated.Inc()
}

// BusDropped 记录一个因慢消费者丢弃的总线事件，签名匹配 eventbus.DropHook
func (m *Metrics) BusDropped(eventType reflect.Type) {
	if m == nil {
		return
	}
	m.busDropped.WithLabelValues(eventType.Name()).Inc()
}

// ConnectionBound 连接绑定
func (m *Metrics) ConnectionBound() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

// ConnectionReleased 连接解绑
func (m *Metrics) ConnectionReleased() {
	if m == nil {
		return
	}
	m.connections.Dec()
}

// SetActions 设置已注册动作数
func (m *Metrics) SetActions(n int) {
	if m == nil {
		return
	}
	m.actions.Set(float64(n))
}

// ObserveDispatch 记录一次流水线耗时
func (m *Metrics) ObserveDispatch(d time.Duration) {
	if m == nil {
		return
	}
	m.dispatch.Observe(d.Seconds())
}
