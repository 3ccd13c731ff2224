package gateway

import (
	"sync"

	"github.com/golang-io/mqttsn-gateway/session"
)

// Registry owns every live Session, keyed by whatever identity the
// transport driver uses to address a client (a UDP peer address string in
// the reference driver). A lookup-by-key table rather than a bare set,
// since the gateway must find a client's existing session, not just track
// that a connection exists.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*session.Session)}
}

// sessionBinder is implemented by a Driver that needs the Session back-
// reference session.Driver itself never hands it (e.g. to drive its own
// Tick timer or report BrokerConnected changes). GetOrCreate calls it once,
// right after construction, if the driver returned by newDriver supports it.
type sessionBinder interface {
	BindSession(*session.Session)
}

// GetOrCreate returns the session for key, creating and starting a new one
// via newDriver if none exists yet.
func (r *Registry) GetOrCreate(key string, newDriver func() session.Driver) *session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[key]; ok {
		return s
	}
	drv := newDriver()
	s := session.New(drv)
	if b, ok := drv.(sessionBinder); ok {
		b.BindSession(s)
	}
	s.Start()
	r.sessions[key] = s
	metrics.RegisteredSessions.Set(float64(len(r.sessions)))
	return s
}

// Get looks up an existing session without creating one.
func (r *Registry) Get(key string) (*session.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[key]
	return s, ok
}

// Remove stops and discards the session for key. The driver calls this
// once a session has terminated (Driver.RequestTerminate fired).
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[key]; ok {
		s.Stop()
		delete(r.sessions, key)
		metrics.RegisteredSessions.Set(float64(len(r.sessions)))
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Range calls fn for every live session. fn must not call back into the
// Registry — it is called with the lock held.
func (r *Registry) Range(fn func(key string, s *session.Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, s := range r.sessions {
		fn(k, s)
	}
}
