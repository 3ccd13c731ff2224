package session

import (
	"bytes"
	"hash/fnv"
	"log"

	"github.com/golang-io/mqttsn-gateway/packet"
	"github.com/golang-io/mqttsn-gateway/snpacket"
)

type connectPhase int

const (
	phaseIdle connectPhase = iota
	phaseAwaitingWillTopic
	phaseAwaitingWillMsg
	phaseForwardingConnect
	phaseAwaitingConnack
)

// connectOp is the state machine that turns an MQTT-SN CONNECT (plus
// optional will exchange) into a forwarded MQTT CONNECT, and translates the
// broker's CONNACK back to CONNACK_SN. It tracks its own attempt count and
// which of clientId/willTopic/willMsg have been captured from the client
// alongside the pending clientId/will/keepAlive/clean fields themselves.
type connectOp struct {
	base

	phase connectPhase

	pendingClientID string
	pendingWill     WillInfo
	pendingKeepAlive uint16
	pendingClean    bool

	attempt              uint32
	hasClientID          bool
	hasWillTopic         bool
	hasWillMsg           bool
	waitingForReconnect  bool
	pubOnlyClient        bool

	deadlineMs uint32
}

func (op *connectOp) HandleClientMsg(msg snpacket.Message) bool {
	switch m := msg.(type) {
	case *snpacket.CONNECT:
		op.startConnect(m)
		return true
	case *snpacket.WILLTOPIC:
		if op.phase != phaseAwaitingWillTopic {
			return false
		}
		op.pendingWill.Topic = m.WillTopic
		op.pendingWill.QoS = translateQosFromSN(m.Flags.QoS())
		op.pendingWill.Retain = m.Flags.Retain()
		op.hasWillTopic = true
		op.phase = phaseAwaitingWillMsg
		op.attempt = 0
		_ = op.sendToClient(&snpacket.WILLMSGREQ{})
		return true
	case *snpacket.WILLMSG:
		if op.phase != phaseAwaitingWillMsg {
			return false
		}
		op.pendingWill.Msg = append([]byte{}, m.WillMsg...)
		op.hasWillMsg = true
		op.forwardConnectionReq()
		return true
	case *snpacket.PUBLISH:
		if m.Flags.QoS() != -1 {
			return false
		}
		if op.state.ConnStatus != Disconnected {
			return false
		}
		op.startPublishOnlyConnect(m)
		return false // PubSend still needs to see and forward the publish itself
	}
	return false
}

func (op *connectOp) HandleBrokerMsg(p packet.Packet) bool {
	connack, ok := p.(*packet.CONNACK)
	if !ok {
		return false
	}
	if op.phase != phaseAwaitingConnack {
		return false
	}
	op.processAck(connack.ConnectReturnCode)
	return true
}

func (op *connectOp) NextTickMs() (uint32, bool) {
	switch op.phase {
	case phaseAwaitingWillTopic, phaseAwaitingWillMsg, phaseAwaitingConnack:
		return op.deadlineMs, true
	default:
		return 0, false
	}
}

func (op *connectOp) Tick() {
	op.attempt++
	if op.attempt >= op.state.RetryCount {
		log.Printf("session[%s]: connect: retries exhausted in phase %d", op.pendingClientID, op.phase)
		_ = op.sendToClient(&snpacket.CONNACK{ReturnCode: snpacket.ReturnRejectedCongestion})
		op.clearInternalState()
		return
	}
	op.deadlineMs = op.state.RetryPeriodMs
	switch op.phase {
	case phaseAwaitingWillTopic:
		_ = op.sendToClient(&snpacket.WILLTOPICREQ{})
	case phaseAwaitingWillMsg:
		_ = op.sendToClient(&snpacket.WILLMSGREQ{})
	case phaseAwaitingConnack:
		op.doForwardConnect()
	}
}

func (op *connectOp) BrokerConnectionUpdated() {
	if !op.state.BrokerConnected || !op.waitingForReconnect {
		return
	}
	op.waitingForReconnect = false
	op.doForwardConnect()
}

func (op *connectOp) startConnect(m *snpacket.CONNECT) {
	op.clearInternalState()

	clientID := m.ClientId
	if clientID == "" {
		clientID = op.state.DefaultClientID
	}
	op.pendingClientID = clientID
	op.hasClientID = clientID != ""
	op.pendingClean = m.Flags.CleanSession()
	op.pendingKeepAlive = m.Duration
	op.pubOnlyClient = false

	if m.Flags.Will() {
		op.phase = phaseAwaitingWillTopic
		op.attempt = 0
		op.deadlineMs = op.state.RetryPeriodMs
		_ = op.sendToClient(&snpacket.WILLTOPICREQ{})
		return
	}
	op.forwardConnectionReq()
}

func (op *connectOp) startPublishOnlyConnect(m *snpacket.PUBLISH) {
	name, ok := op.resolvePublishOnlyTopic(m)
	if !ok {
		name = "unknown"
	}
	op.clearInternalState()
	op.pendingClientID = "pub-only:" + shortTopicID(name)
	op.hasClientID = true
	op.pendingClean = true
	op.pendingKeepAlive = op.state.PubOnlyKeepAliveS
	op.pubOnlyClient = true
	op.forwardConnectionReq()
}

func (op *connectOp) resolvePublishOnlyTopic(m *snpacket.PUBLISH) (string, bool) {
	if m.Flags.TopicIdType() == snpacket.TopicIdShortName {
		var b bytes.Buffer
		b.WriteByte(byte(m.TopicId >> 8))
		b.WriteByte(byte(m.TopicId))
		return b.String(), true
	}
	return op.state.RegMgr.MapTopicName(m.TopicId)
}

func shortTopicID(topic string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(topic))
	const alphabet = "0123456789abcdefghijklmnopqrstuv"
	v := h.Sum32()
	out := make([]byte, 6)
	for i := range out {
		out[i] = alphabet[v&0x1F]
		v >>= 5
	}
	return string(out)
}

func (op *connectOp) forwardConnectionReq() {
	op.phase = phaseForwardingConnect
	op.doForwardConnect()
}

func (op *connectOp) doForwardConnect() {
	op.phase = phaseAwaitingConnack
	op.attempt = 0
	op.deadlineMs = op.state.RetryPeriodMs

	if !op.state.BrokerConnected {
		op.waitingForReconnect = true
		return
	}

	username, password := op.state.Username, op.state.Password
	if op.state.Username == "" {
		if u, p, ok := op.s.driver.RequestAuthInfo(op.pendingClientID); ok {
			username, password = u, p
		}
	}

	keepAlive := op.pendingKeepAlive + op.pendingKeepAlive/2 // jitter tolerance

	var flags packet.ConnectFlags
	if op.pendingClean {
		flags |= 0x02
	}
	connect := &packet.CONNECT{
		FixedHeader:  &packet.FixedHeader{Version: packet.VERSION311, Kind: 0x1},
		ConnectFlags: flags,
		ClientID:     op.pendingClientID,
		KeepAlive:    keepAlive,
		Username:     username,
		Password:     string(password),
	}
	if op.hasWillTopic {
		connect.ConnectFlags |= packet.ConnectFlags(op.pendingWill.QoS) << 3
		if op.pendingWill.Retain {
			connect.ConnectFlags |= 0x20
		}
		connect.WillTopic = op.pendingWill.Topic
		connect.WillPayload = op.pendingWill.Msg
	}
	_ = op.sendToBroker(connect)
}

// processAck translates the broker's CONNACK return code per the
// BrokerFault mapping and completes the Connect state machine.
func (op *connectOp) processAck(code packet.ReasonCode) {
	switch code.Code {
	case 0: // Accepted
		op.state.ConnStatus = Connected
		op.state.ClientID = op.pendingClientID
		op.state.Will = op.pendingWill
		op.state.KeepAliveS = op.pendingKeepAlive
		_ = op.sendToClient(&snpacket.CONNACK{ReturnCode: snpacket.ReturnAccepted})
		if !op.state.ClientConnectReported {
			op.state.ClientConnectReported = true
			op.s.driver.ReportClientConnected(op.pendingClientID)
		}
	case 5: // RefusedNotAuthorized (MQTT v3.1.1 reason code 5)
		_ = op.sendToClient(&snpacket.CONNACK{ReturnCode: snpacket.ReturnRejectedNotSupported})
	default:
		_ = op.sendToClient(&snpacket.CONNACK{ReturnCode: snpacket.ReturnRejectedCongestion})
	}
	op.clearInternalState()
}

func (op *connectOp) clearInternalState() {
	op.phase = phaseIdle
	op.attempt = 0
	op.deadlineMs = 0
	op.hasWillTopic = false
	op.hasWillMsg = false
	op.waitingForReconnect = false
	op.pendingWill = WillInfo{}
}
