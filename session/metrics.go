package session

import "github.com/prometheus/client_golang/prometheus"

// metrics is the per-session-family Prometheus surface: every Session in
// the process increments the same set of counters/gauges, the same way the
// teacher's package-level Stat is shared by every broker connection rather
// than instantiated per-conn.
type metricsT struct {
	ActiveSessions  prometheus.Gauge
	PacketsFromClient prometheus.Counter
	BytesFromClient   prometheus.Counter
	PacketsToClient   prometheus.Counter
	BytesToClient     prometheus.Counter
	PacketsFromBroker prometheus.Counter
	BytesFromBroker   prometheus.Counter
	PacketsToBroker   prometheus.Counter
	BytesToBroker     prometheus.Counter
	TopicsAllocated   prometheus.Gauge
	FrameErrors       prometheus.Counter
}

var metrics = metricsT{
	ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mqttsn_gateway_active_sessions", Help: "Number of running MQTT-SN sessions"}),
	PacketsFromClient: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mqttsn_gateway_client_packets_received_total", Help: "MQTT-SN messages decoded from clients"}),
	BytesFromClient: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mqttsn_gateway_client_bytes_received_total", Help: "Bytes consumed from client streams"}),
	PacketsToClient: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mqttsn_gateway_client_packets_sent_total", Help: "MQTT-SN messages sent to clients"}),
	BytesToClient: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mqttsn_gateway_client_bytes_sent_total", Help: "Bytes written to client streams"}),
	PacketsFromBroker: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mqttsn_gateway_broker_packets_received_total", Help: "MQTT messages decoded from the broker"}),
	BytesFromBroker: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mqttsn_gateway_broker_bytes_received_total", Help: "Bytes consumed from the broker stream"}),
	PacketsToBroker: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mqttsn_gateway_broker_packets_sent_total", Help: "MQTT messages sent to the broker"}),
	BytesToBroker: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mqttsn_gateway_broker_bytes_sent_total", Help: "Bytes written to the broker stream"}),
	TopicsAllocated: prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mqttsn_gateway_topics_allocated", Help: "Registered (non-predefined) topic ids currently held across all sessions"}),
	FrameErrors: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mqttsn_gateway_frame_errors_total", Help: "Malformed client or broker frames dropped"}),
}

// noteTopicRegistered/noteTopicDiscarded track the gateway-wide count of
// registered (non-predefined) topic ids, one Inc/Dec per allocation or
// release rather than a periodic recomputation, since RegMgr state is
// per-session and no single session can recompute the global total.
func noteTopicRegistered() { metrics.TopicsAllocated.Inc() }
func noteTopicDiscarded()  { metrics.TopicsAllocated.Dec() }

// RegisterMetrics registers every session-family collector. Called once by
// the admin server at startup, before it starts serving /metrics.
func RegisterMetrics() {
	prometheus.MustRegister(
		metrics.ActiveSessions,
		metrics.PacketsFromClient, metrics.BytesFromClient,
		metrics.PacketsToClient, metrics.BytesToClient,
		metrics.PacketsFromBroker, metrics.BytesFromBroker,
		metrics.PacketsToBroker, metrics.BytesToBroker,
		metrics.TopicsAllocated,
		metrics.FrameErrors,
	)
}
