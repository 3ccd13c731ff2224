package gateway

import (
	"testing"

	"github.com/golang-io/mqttsn-gateway/session"
)

type nopDriver struct{ session.NopDriver }

type bindingDriver struct {
	session.NopDriver
	bound *session.Session
}

func (d *bindingDriver) BindSession(s *session.Session) { d.bound = s }

func TestRegistryGetOrCreateReusesSession(t *testing.T) {
	r := NewRegistry()
	calls := 0
	newDriver := func() session.Driver {
		calls++
		return &nopDriver{}
	}

	s1 := r.GetOrCreate("client-a", newDriver)
	s2 := r.GetOrCreate("client-a", newDriver)
	if s1 != s2 {
		t.Fatal("GetOrCreate returned different sessions for the same key")
	}
	if calls != 1 {
		t.Fatalf("newDriver called %d times, want 1", calls)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistryBindsSessionWhenDriverSupportsIt(t *testing.T) {
	r := NewRegistry()
	drv := &bindingDriver{}
	s := r.GetOrCreate("client-b", func() session.Driver { return drv })
	if drv.bound != s {
		t.Fatal("BindSession was not called with the created Session")
	}
}

func TestRegistryRemoveStopsAndDeletes(t *testing.T) {
	r := NewRegistry()
	r.GetOrCreate("client-c", func() session.Driver { return &nopDriver{} })
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}

	r.Remove("client-c")
	if r.Len() != 0 {
		t.Fatalf("Len() after Remove = %d, want 0", r.Len())
	}
	if _, ok := r.Get("client-c"); ok {
		t.Fatal("session still retrievable after Remove")
	}
}

func TestRegistryRange(t *testing.T) {
	r := NewRegistry()
	r.GetOrCreate("a", func() session.Driver { return &nopDriver{} })
	r.GetOrCreate("b", func() session.Driver { return &nopDriver{} })

	seen := map[string]bool{}
	r.Range(func(key string, s *session.Session) { seen[key] = true })
	if !seen["a"] || !seen["b"] {
		t.Fatalf("Range did not visit both sessions: %+v", seen)
	}
}
