package session

import (
	"log"

	"github.com/golang-io/mqttsn-gateway/packet"
	"github.com/golang-io/mqttsn-gateway/snpacket"
)

// pubSendOp implements 4.4.4 PubSend: client-to-broker publishes. MQTT-SN
// permits at most one in-flight QoS>0 publish from client to broker at a
// time, so this op tracks a single outstanding exchange.
type pubSendOp struct {
	base

	inFlight       bool
	clientMsgID    uint16
	clientTopicID  uint16
	qos            QoS
	brokerPacketID uint16
	awaitingPubrel bool

	nextBrokerPacketID uint16
	deadlineMs         uint32
	attempt            uint32
}

func (op *pubSendOp) HandleClientMsg(msg snpacket.Message) bool {
	m, ok := msg.(*snpacket.PUBLISH)
	if !ok {
		return false
	}

	topicID, topicName, ok := op.resolveTopic(m)
	if !ok {
		_ = op.sendToClient(&snpacket.PUBACK{TopicId: m.TopicId, MsgId: m.MsgId, ReturnCode: snpacket.ReturnRejectedInvalidTopicId})
		return true
	}

	qos := translateQosFromSN(m.Flags.QoS())
	if qos > QoSAtMostOnce {
		if op.inFlight {
			log.Printf("session[%s]: pubsend: dropping overlapping QoS>0 publish", op.state.ClientID)
			return true
		}
		op.inFlight = true
		op.clientMsgID = m.MsgId
		op.clientTopicID = topicID
		op.qos = qos
		op.brokerPacketID = op.allocBrokerPacketID()
		op.attempt = 0
		op.deadlineMs = op.state.RetryPeriodMs
	}

	pub := &packet.PUBLISH{
		FixedHeader: &packet.FixedHeader{Version: packet.VERSION311, Kind: 0x3, QoS: translateQosForBroker(qos), Retain: boolToBit(m.Flags.Retain())},
		Message:     &packet.Message{TopicName: topicName, Content: m.Data},
	}
	if qos > QoSAtMostOnce {
		pub.PacketID = op.brokerPacketID
	}
	_ = op.sendToBroker(pub)
	return true
}

func (op *pubSendOp) resolveTopic(m *snpacket.PUBLISH) (topicID uint16, name string, ok bool) {
	switch m.Flags.TopicIdType() {
	case snpacket.TopicIdShortName:
		return m.TopicId, shortNameString(m.TopicId), true
	default: // Normal and PreDefined both resolve via RegMgr
		name, ok := op.state.RegMgr.MapTopicName(m.TopicId)
		return m.TopicId, name, ok
	}
}

func shortNameString(id uint16) string {
	return string([]byte{byte(id >> 8), byte(id)})
}

func boolToBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func (op *pubSendOp) allocBrokerPacketID() uint16 {
	op.nextBrokerPacketID++
	if op.nextBrokerPacketID == 0 {
		op.nextBrokerPacketID = 1
	}
	return op.nextBrokerPacketID
}

func (op *pubSendOp) HandleBrokerMsg(p packet.Packet) bool {
	if !op.inFlight {
		return false
	}
	switch m := p.(type) {
	case *packet.PUBACK:
		if m.PacketID != op.brokerPacketID || op.qos != QoSAtLeastOnce {
			return false
		}
		_ = op.sendToClient(&snpacket.PUBACK{TopicId: op.clientTopicID, MsgId: op.clientMsgID, ReturnCode: snpacket.ReturnAccepted})
		op.clear()
		return true
	case *packet.PUBREC:
		if m.PacketID != op.brokerPacketID || op.qos != QoSExactlyOnce {
			return false
		}
		op.awaitingPubrel = true
		op.attempt = 0
		op.deadlineMs = op.state.RetryPeriodMs
		_ = op.sendToBroker(&packet.PUBREL{FixedHeader: &packet.FixedHeader{Version: packet.VERSION311, Kind: 0x6, QoS: 1}, PacketID: m.PacketID})
		return true
	case *packet.PUBCOMP:
		if m.PacketID != op.brokerPacketID || !op.awaitingPubrel {
			return false
		}
		_ = op.sendToClient(&snpacket.PUBCOMP{MsgId: op.clientMsgID})
		op.clear()
		return true
	}
	return false
}

func (op *pubSendOp) NextTickMs() (uint32, bool) {
	if !op.inFlight {
		return 0, false
	}
	return op.deadlineMs, true
}

func (op *pubSendOp) Tick() {
	op.attempt++
	if op.attempt >= op.state.RetryCount {
		log.Printf("session[%s]: pubsend: retries exhausted", op.state.ClientID)
		_ = op.sendToClient(&snpacket.PUBACK{TopicId: op.clientTopicID, MsgId: op.clientMsgID, ReturnCode: snpacket.ReturnRejectedCongestion})
		op.clear()
		return
	}
	op.deadlineMs = op.state.RetryPeriodMs
	if op.awaitingPubrel {
		_ = op.sendToBroker(&packet.PUBREL{FixedHeader: &packet.FixedHeader{Version: packet.VERSION311, Kind: 0x6, QoS: 1, Dup: 1}, PacketID: op.brokerPacketID})
	}
}

func (op *pubSendOp) clear() {
	op.inFlight = false
	op.awaitingPubrel = false
	op.deadlineMs = 0
	op.attempt = 0
}
