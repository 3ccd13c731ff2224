package gateway

import "github.com/prometheus/client_golang/prometheus"

var metrics = struct {
	AdvertisementsSent prometheus.Counter
	RegisteredSessions prometheus.Gauge
}{
	AdvertisementsSent: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mqttsn_gateway_advertisements_sent_total", Help: "ADVERTISE_SN beacons broadcast"}),
	RegisteredSessions: prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mqttsn_gateway_registered_sessions", Help: "Sessions currently tracked by the gateway registry"}),
}

// RegisterMetrics registers the gateway-level collectors, mirroring the
// teacher's Stat.Register, called once by the admin server at startup.
func RegisterMetrics() {
	prometheus.MustRegister(metrics.AdvertisementsSent, metrics.RegisteredSessions)
}
