package session

import (
	"log"

	"github.com/golang-io/mqttsn-gateway/packet"
	"github.com/golang-io/mqttsn-gateway/snpacket"
)

const brokerKeepAliveMissLimit = 2

// pingOp implements 4.4.8: client keep-alive probes, the sleeping-client
// wake-up flush described in 4.4.3, and the gateway's own keep-alive ping
// to the broker.
type pingOp struct {
	base

	pubRecv *pubRecvOp

	waking bool

	brokerPingPending bool
	brokerPingMisses  uint32
}

func (op *pingOp) HandleClientMsg(msg snpacket.Message) bool {
	m, ok := msg.(*snpacket.PINGREQ)
	if !ok {
		return false
	}
	if m.ClientId == "" {
		_ = op.sendToClient(&snpacket.PINGRESP{})
		return true
	}
	op.waking = true
	op.tryFlush()
	return true
}

// continueWake is called by Session after dispatching any client message,
// so a buffered-publish acknowledgement can trigger the next flush step.
func (op *pingOp) continueWake() {
	if op.waking {
		op.tryFlush()
	}
}

func (op *pingOp) tryFlush() {
	if op.pubRecv.FlushNext() {
		return
	}
	if op.pubRecv.Idle() {
		op.waking = false
		op.state.ConnStatus = Asleep
		_ = op.sendToClient(&snpacket.PINGRESP{})
	}
}

func (op *pingOp) HandleBrokerMsg(p packet.Packet) bool {
	if _, ok := p.(*packet.PINGRESP); !ok {
		return false
	}
	if !op.brokerPingPending {
		return false
	}
	op.brokerPingPending = false
	op.brokerPingMisses = 0
	return true
}

func (op *pingOp) NextTickMs() (uint32, bool) {
	switch op.state.ConnStatus {
	case Connected:
		ms := uint32(op.state.KeepAliveS) * 900 // 0.9 * keepalive, in ms
		if ms == 0 {
			return 0, false
		}
		return ms, true
	case Asleep:
		ms := uint32(op.state.KeepAliveS) * 1100 // 1.1 * keepalive grace, in ms
		if ms == 0 {
			return 0, false
		}
		return ms, true
	default:
		return 0, false
	}
}

func (op *pingOp) Tick() {
	switch op.state.ConnStatus {
	case Asleep:
		log.Printf("session[%s]: ping: sleeping client exceeded keep-alive grace, terminating", op.state.ClientID)
		op.state.ConnStatus = Disconnected
		op.terminate()
	case Connected:
		if op.brokerPingPending {
			op.brokerPingMisses++
			if op.brokerPingMisses >= brokerKeepAliveMissLimit {
				log.Printf("session[%s]: ping: broker missed %d keep-alives, reconnecting", op.state.ClientID, op.brokerPingMisses)
				op.brokerPingPending = false
				op.brokerPingMisses = 0
				op.reconnectBroker()
				return
			}
		}
		op.brokerPingPending = true
		_ = op.sendToBroker(&packet.PINGREQ{FixedHeader: &packet.FixedHeader{Version: packet.VERSION311, Kind: 0xC}})
	}
}

func (op *pingOp) BrokerConnectionUpdated() {
	if !op.state.BrokerConnected {
		op.brokerPingPending = false
		op.brokerPingMisses = 0
	}
}
