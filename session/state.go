// Package session implements the per-client MQTT-SN/MQTT protocol bridge:
// one Session per MQTT-SN client, holding an ordered chain of SessionOps
// that translate between the client's MQTT-SN stream and the broker's
// MQTT v3.1.1 stream.
package session

import (
	"github.com/golang-io/mqttsn-gateway/regmgr"
)

// ConnStatus is the client's connection state as seen by the gateway.
type ConnStatus uint8

const (
	Disconnected ConnStatus = iota
	Connected
	Asleep
)

func (s ConnStatus) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	case Asleep:
		return "asleep"
	default:
		return "unknown"
	}
}

// WillInfo is a client's last-will registration. Equality is field-wise.
type WillInfo struct {
	Topic  string
	Msg    []byte
	QoS    QoS
	Retain bool
}

func (w WillInfo) Equal(o WillInfo) bool {
	if w.Topic != o.Topic || w.QoS != o.QoS || w.Retain != o.Retain {
		return false
	}
	if len(w.Msg) != len(o.Msg) {
		return false
	}
	for i := range w.Msg {
		if w.Msg[i] != o.Msg[i] {
			return false
		}
	}
	return true
}

// PubInfo is one broker-originated publish buffered while the client sleeps.
type PubInfo struct {
	Topic   string
	Payload []byte
	QoS     QoS
	Retain  bool
	Dup     bool
}

const (
	// DefaultRetryPeriodMs and DefaultRetryCount bound how long a SessionOp
	// waits for a peer reply before giving up.
	DefaultRetryPeriodMs = 10000
	DefaultRetryCount    = 3
	// DefaultKeepAliveS is the default keep-alive for pub-only synthetic
	// sessions (State.PubOnlyKeepAliveS).
	DefaultKeepAliveS = 60
)

// State is the process-adjacent data shared by every SessionOp. It is
// mutated only on the driver's thread while the owning Session holds
// control, never touched from any other goroutine.
type State struct {
	ConnStatus ConnStatus

	BrokerConnected         bool
	ReconnectingBroker      bool
	PendingClientDisconnect bool
	ClientConnectReported   bool
	Terminating             bool
	Running                 bool

	RetryPeriodMs uint32
	RetryCount    uint32

	TickReqMs uint32 // 0 means no outstanding timer

	TimestampMs        uint64
	LastMsgTimestampMs uint64

	ClientID          string
	DefaultClientID   string
	Username          string
	Password          []byte
	KeepAliveS        uint16
	PubOnlyKeepAliveS uint16

	GwID uint8

	Will WillInfo

	SleepPubAccLimit int // 0 means unbounded
	BrokerPubs       []PubInfo

	RegMgr *regmgr.RegMgr

	CallStackCount uint32
}

// NewState builds a State with the gateway's baseline configuration
// defaults; a driver overrides any of them via the Set*/Add* methods on
// Session once it has loaded its own configuration.
func NewState() *State {
	return &State{
		RetryPeriodMs:     DefaultRetryPeriodMs,
		RetryCount:        DefaultRetryCount,
		PubOnlyKeepAliveS: DefaultKeepAliveS,
		RegMgr:            regmgr.New(),
	}
}

// PushBrokerPub appends a buffered broker publish, dropping the newest
// arrival on overflow once SleepPubAccLimit is reached (0 == unbounded).
func (s *State) PushBrokerPub(p PubInfo) {
	if s.SleepPubAccLimit > 0 && len(s.BrokerPubs) >= s.SleepPubAccLimit {
		return
	}
	s.BrokerPubs = append(s.BrokerPubs, p)
}

// PopBrokerPub removes and returns the oldest buffered publish, if any.
func (s *State) PopBrokerPub() (PubInfo, bool) {
	if len(s.BrokerPubs) == 0 {
		return PubInfo{}, false
	}
	p := s.BrokerPubs[0]
	s.BrokerPubs = s.BrokerPubs[1:]
	return p, true
}
