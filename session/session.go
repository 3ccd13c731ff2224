package session

import (
	"bytes"
	"log"

	"github.com/golang-io/mqttsn-gateway/packet"
	"github.com/golang-io/mqttsn-gateway/snpacket"
)

// Session owns one client's SessionState and its ordered chain of
// SessionOps. Every public method runs on the driver's thread; there is
// no internal locking because there is no internal concurrency.
type Session struct {
	state  *State
	driver Driver
	ops    []Op

	connectOp *connectOp
	pubRecvOp *pubRecvOp
	pingOp    *pingOp

	clientBuf bytes.Buffer
	brokerBuf bytes.Buffer
}

// New builds a Session with the standard op chain: Connect first (so
// connection-setup messages are captured before generic handling), then
// Disconnect/Asleep, PubSend, PubRecv, Forward, WillUpdate, Ping.
func New(driver Driver) *Session {
	state := NewState()
	s := &Session{state: state, driver: driver}

	connect := &connectOp{base: base{state: state, s: s}}
	s.connectOp = connect

	pubRecv := &pubRecvOp{base: base{state: state, s: s}}
	s.pubRecvOp = pubRecv

	ping := &pingOp{base: base{state: state, s: s}, pubRecv: pubRecv}
	s.pingOp = ping

	s.ops = []Op{
		connect,
		&disconnectOp{base: base{state: state, s: s}},
		&pubSendOp{base: base{state: state, s: s}},
		pubRecv,
		&forwardOp{base: base{state: state, s: s}},
		&willUpdateOp{base: base{state: state, s: s}},
		ping,
	}
	return s
}

// Start activates the session. Returns false if already running.
func (s *Session) Start() bool {
	if s.state.Running {
		return false
	}
	s.state.Running = true
	s.state.Terminating = false
	metrics.ActiveSessions.Inc()
	return true
}

// Stop deactivates the session: clears all timers and ignores subsequent
// inputs until Start is called again.
func (s *Session) Stop() {
	s.state.Running = false
	s.driver.CancelTick()
	s.state.TickReqMs = 0
	metrics.ActiveSessions.Dec()
}

func (s *Session) enter() bool {
	if !s.state.Running || s.state.Terminating {
		return false
	}
	s.state.CallStackCount++
	return true
}

// exit is deferred from every public entry point. It runs the reentrancy
// accounting described in the concurrency model: timer reprogramming and
// termination are only acted on once the call stack unwinds to zero.
func (s *Session) exit() {
	s.state.CallStackCount--
	if s.state.CallStackCount > 0 {
		return
	}
	if s.state.Terminating {
		s.driver.RequestTerminate()
		return
	}
	s.reprogramTick()
}

func (s *Session) reprogramTick() {
	best, pending := uint32(0), false
	for _, op := range s.ops {
		ms, has := op.NextTickMs()
		if !has {
			continue
		}
		if !pending || ms < best {
			best, pending = ms, true
		}
	}
	s.driver.CancelTick()
	if pending {
		s.state.TickReqMs = best
		s.driver.ProgramTick(best)
	} else {
		s.state.TickReqMs = 0
	}
}

// DataFromClient feeds newly-arrived MQTT-SN bytes and reports how many
// were consumed. Bytes left over (a partial frame) must be resubmitted,
// prefixed to whatever arrives next.
func (s *Session) DataFromClient(b []byte) int {
	if !s.enter() {
		return 0
	}
	defer s.exit()

	metrics.BytesFromClient.Add(float64(len(b)))
	s.clientBuf.Write(b)
	consumed := 0
	for {
		before := s.clientBuf.Len()
		msg, err := snpacket.Decode(&s.clientBuf)
		if err == snpacket.NotEnoughData {
			break
		}
		consumed += before - s.clientBuf.Len()
		if err != nil {
			metrics.FrameErrors.Inc()
			log.Printf("session[%s]: client frame error: %v", s.state.ClientID, err)
			continue
		}
		metrics.PacketsFromClient.Inc()
		s.dispatchClientMsg(msg)
	}
	return consumed
}

// DataFromBroker feeds newly-arrived MQTT bytes and reports how many were
// consumed, with the same partial-frame contract as DataFromClient.
func (s *Session) DataFromBroker(b []byte) int {
	if !s.enter() {
		return 0
	}
	defer s.exit()

	metrics.BytesFromBroker.Add(float64(len(b)))
	s.brokerBuf.Write(b)
	consumed := 0
	for {
		total, complete, err := peekMQTTFrame(&s.brokerBuf, packet.VERSION311)
		if err != nil {
			metrics.FrameErrors.Inc()
			log.Printf("session[%s]: broker frame error: %v", s.state.ClientID, err)
			s.brokerBuf.Reset()
			break
		}
		if !complete {
			break
		}
		frame := s.brokerBuf.Next(total)
		consumed += total
		pkt, err := packet.Unpack(packet.VERSION311, bytes.NewReader(frame))
		if err != nil {
			metrics.FrameErrors.Inc()
			log.Printf("session[%s]: broker decode error: %v", s.state.ClientID, err)
			continue
		}
		metrics.PacketsFromBroker.Inc()
		s.dispatchBrokerMsg(pkt)
	}
	return consumed
}

func (s *Session) dispatchClientMsg(msg snpacket.Message) {
	for _, op := range s.ops {
		if op.HandleClientMsg(msg) {
			break
		}
	}
	s.pingOp.continueWake()
}

func (s *Session) dispatchBrokerMsg(pkt packet.Packet) {
	for _, op := range s.ops {
		if op.HandleBrokerMsg(pkt) {
			return
		}
	}
}

// BrokerConnected reports a change in the broker TCP connection's state.
func (s *Session) BrokerConnected(connected bool) {
	if !s.enter() {
		return
	}
	defer s.exit()

	s.state.BrokerConnected = connected
	s.state.ReconnectingBroker = false
	for _, op := range s.ops {
		op.BrokerConnectionUpdated()
	}
}

// Tick fires when the driver's programmed timer elapses.
func (s *Session) Tick() {
	if !s.enter() {
		return
	}
	defer s.exit()

	elapsed := s.driver.CancelTick()
	_ = elapsed
	due := s.state.TickReqMs
	for _, op := range s.ops {
		if ms, pending := op.NextTickMs(); pending && ms <= due {
			op.Tick()
		}
	}
	s.pingOp.continueWake()
}

// AddPredefinedTopic installs a read-only predefined topic mapping,
// shared by every SessionOp through State.RegMgr.
func (s *Session) AddPredefinedTopic(name string, id uint16) bool {
	return s.state.RegMgr.AddPredefined(name, id) == nil
}

// SetTopicIdAllocRange reconfigures the registered-topic allocation range.
func (s *Session) SetTopicIdAllocRange(min, max uint16) bool {
	return s.state.RegMgr.SetRange(min, max) == nil
}

func (s *Session) SetRetryPeriodMs(ms uint32)     { s.state.RetryPeriodMs = ms }
func (s *Session) SetRetryCount(n uint32)         { s.state.RetryCount = n }
func (s *Session) SetGwID(id uint8)               { s.state.GwID = id }
func (s *Session) SetDefaultClientID(id string)   { s.state.DefaultClientID = id }
func (s *Session) SetSleepPubAccLimit(limit int)  { s.state.SleepPubAccLimit = limit }
func (s *Session) SetPubOnlyKeepAliveS(ka uint16) { s.state.PubOnlyKeepAliveS = ka }
