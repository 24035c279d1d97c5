// Package monitoring configures the stats server, metrics and stats
// pushers.
package monitoring

import (
	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

// Metric types.
const (
	MetricCounter  = "counter"
	MetricGauge    = "gauge"
	MetricAbsolute = "absolute"
	MetricAlias    = "alias"
)

// Metric declares a custom metric.
type Metric struct {
	Name string
	Type string
	// SNMP object id.
	OID string
	// Metric this one aliases, for the alias type.
	Alias string
	// Collector name, e.g. "file" or "sum".
	Collector string
	// Collector argument, e.g. a file path.
	Arg          string
	Initial      *int
	ResetAfter   bool
	Children     []string
	CollectEvery int
}

func (m Metric) String() string {
	return core.NewKeyValue().
		Add("name", m.Name).
		Add("type", core.NonZero(m.Type)).
		Add("oid", core.NonZero(m.OID)).
		Add("alias", core.NonZero(m.Alias)).
		Add("collector", core.NonZero(m.Collector)).
		Add("arg1", core.NonZero(m.Arg)).
		Add("initial_value", m.Initial).
		AddBool("reset_after_push", m.ResetAfter).
		AddList("children", m.Children).
		Add("freq", core.NonZero(m.CollectEvery)).
		String()
}

// MetricVar refers to the value of a metric in other directives.
func MetricVar(name string) *core.Templated {
	return core.NewTemplated("${metric[%s]}", name)
}

// Pusher sends stats to an external system.
type Pusher struct {
	*core.Param
}

func newPusher(kind, plugin string, args ...interface{}) *Pusher {
	p := core.NewParam(kind, args...)
	p.ArgsJoiner = ","
	p.PluginName = plugin
	return &Pusher{Param: p}
}

// SocketPusher pushes stats to a UDP address as plain text.
func SocketPusher(address, prefix string) *Pusher {
	return newPusher("socket", "stats_pusher_socket", address, core.NonZero(prefix))
}

// StatsDPusher pushes stats to a statsd server.
func StatsDPusher(address, prefix string) *Pusher {
	return newPusher("statsd", "stats_pusher_statsd", address, core.NonZero(prefix))
}

// FilePusher appends stats to a file.
func FilePusher(path string) *Pusher {
	return newPusher("file", "stats_pusher_file", path)
}

// Monitoring is the monitoring option group.
type Monitoring[S any] struct {
	*core.Group[S]
}

// New returns the group writing into base on behalf of owner.
func New[S any](base *core.Base, owner S) *Monitoring[S] {
	return &Monitoring[S]{Group: core.NewGroup(base, owner, "monitoring", "")}
}

// StatsParams configure the stats server.
type StatsParams struct {
	// Address of the stats server. Placeholders are replaced.
	Address string
	// Serve stats over http.
	HTTP bool
	// Minify the json output.
	Minify       bool
	NoCores      bool
	NoMetrics    bool
	PushInterval int
}

// SetStatsParams configures the stats server.
func (m *Monitoring[S]) SetStatsParams(p StatsParams) S {
	m.Set("stats", core.NonZero(m.Base().ReplacePlaceholders(p.Address)))
	m.Set("stats-http", core.NonZero(p.HTTP), core.AsBool())
	m.Set("stats-minified", core.NonZero(p.Minify), core.AsBool())
	m.Set("stats-no-cores", core.NonZero(p.NoCores), core.AsBool())
	m.Set("stats-no-metrics", core.NonZero(p.NoMetrics), core.AsBool())
	m.Set("stats-pusher-default-freq", core.NonZero(p.PushInterval))
	return m.Section()
}

// MetricsParams configure the metrics subsystem.
type MetricsParams struct {
	Enable bool
	// Directory to store metric values in, one file per metric.
	StoreDir string
	// Restore metric values from StoreDir on startup.
	Restore bool
	NoCores bool
}

// SetMetricsParams configures the metrics subsystem.
func (m *Monitoring[S]) SetMetricsParams(p MetricsParams) S {
	m.Set("enable-metrics", core.NonZero(p.Enable), core.AsBool())
	m.Set("metrics-dir", core.NonZero(m.Base().ReplacePlaceholders(p.StoreDir)))
	m.Set("metrics-dir-restore", core.NonZero(p.Restore), core.AsBool())
	m.Set("metrics-no-cores", core.NonZero(p.NoCores), core.AsBool())
	return m.Section()
}

// RegisterMetric declares custom metrics.
func (m *Monitoring[S]) RegisterMetric(metrics ...Metric) S {
	for _, metric := range metrics {
		m.Set("metric", metric.String(), core.Multi())
	}
	return m.Section()
}

// RegisterStatsPusher adds stats pushers, activating their plugins.
func (m *Monitoring[S]) RegisterStatsPusher(pushers ...*Pusher) S {
	m.Set("stats-push", pushers, core.Multi())
	return m.Section()
}
