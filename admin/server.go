// Package admin is the gateway's observability surface: Prometheus metrics,
// a health check, pprof, and a live session-lifecycle event stream, served
// over a golang-io/requests mux.
package admin

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/golang-io/mqttsn-gateway/gateway"
	"github.com/golang-io/mqttsn-gateway/session"
	"github.com/golang-io/requests"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	xwebsocket "golang.org/x/net/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Server is the admin HTTP surface. One Server runs per gateway process.
type Server struct {
	URL      string
	Registry *gateway.Registry

	hub *hub
}

func NewServer(url string, reg *gateway.Registry) *Server {
	return &Server{URL: url, Registry: reg, hub: newHub()}
}

// Publish fans a session lifecycle event out to every connected /events and
// /events/legacy subscriber. The driver calls this on connect/asleep/
// disconnect/terminate transitions.
func (s *Server) Publish(ev Event) { s.hub.broadcast(ev) }

func adminLog(_ context.Context, stat *requests.Stat) {
	log.Printf("admin: %s", stat.Print())
}

// ListenAndServe registers the session and gateway metric families and
// blocks serving /metrics, /healthz, pprof, /events, and /events/legacy.
func (s *Server) ListenAndServe(ctx context.Context) error {
	session.RegisterMetrics()
	gateway.RegisterMetrics()

	mux := requests.NewServeMux(requests.URL(s.URL), requests.Logf(adminLog))
	mux.Route("/metrics", promhttp.Handler())
	mux.Route("/healthz", http.HandlerFunc(s.handleHealthz))
	// x/net/websocket.Handler implements http.Handler directly, so it
	// wires straight into the requests mux the same way promhttp.Handler
	// does; gorilla/websocket instead upgrades inside a plain handler.
	mux.Route("/events/legacy", s.legacyEventsHandler())
	mux.Route("/events", http.HandlerFunc(s.handleEvents))
	mux.Pprof()

	srv := requests.NewServer(ctx, mux, requests.OnStart(func(hs *http.Server) {
		log.Printf("admin serve: %s", hs.Addr)
	}))
	return srv.ListenAndServe()
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("admin: events upgrade: %v", err)
		return
	}
	defer conn.Close()

	ch := s.hub.subscribe()
	defer s.hub.unsubscribe(ch)
	for ev := range ch {
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
	}
}

func (s *Server) legacyEventsHandler() http.Handler {
	return xwebsocket.Handler(func(ws *xwebsocket.Conn) {
		ws.PayloadType = xwebsocket.BinaryFrame
		ch := s.hub.subscribe()
		defer s.hub.unsubscribe(ch)
		for ev := range ch {
			b, err := json.Marshal(ev)
			if err != nil {
				return
			}
			if _, err := ws.Write(b); err != nil {
				return
			}
		}
	})
}
