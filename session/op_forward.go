package session

import (
	"log"

	"github.com/golang-io/mqttsn-gateway/packet"
	"github.com/golang-io/mqttsn-gateway/snpacket"
)

// forwardOp implements 4.4.6: translating SUBSCRIBE_SN/UNSUBSCRIBE_SN into
// MQTT SUBSCRIBE/UNSUBSCRIBE and their acknowledgements back. MQTT-SN
// permits at most one outstanding subscribe-or-unsubscribe exchange.
type forwardOp struct {
	base

	subInFlight     bool
	subClientMsgID  uint16
	subTopicID      uint16
	subBrokerPacket uint16

	unsubInFlight     bool
	unsubClientMsgID  uint16
	unsubBrokerPacket uint16

	nextBrokerPacketID uint16
	attempt            uint32
	deadlineMs         uint32
}

func (op *forwardOp) HandleClientMsg(msg snpacket.Message) bool {
	switch m := msg.(type) {
	case *snpacket.SUBSCRIBE:
		op.startSubscribe(m)
		return true
	case *snpacket.UNSUBSCRIBE:
		op.startUnsubscribe(m)
		return true
	}
	return false
}

func (op *forwardOp) startSubscribe(m *snpacket.SUBSCRIBE) {
	if op.subInFlight || op.unsubInFlight {
		log.Printf("session[%s]: forward: dropping overlapping subscribe", op.state.ClientID)
		return
	}

	var topicID uint16
	var topicName string
	var ok bool
	switch m.Flags.TopicIdType() {
	case snpacket.TopicIdShortName:
		topicName = m.TopicName
	case snpacket.TopicIdPreDefined:
		topicID = m.TopicId
		topicName, ok = op.state.RegMgr.MapTopicName(topicID)
		if !ok {
			_ = op.sendToClient(&snpacket.SUBACK{TopicId: topicID, MsgId: m.MsgId, ReturnCode: snpacket.ReturnRejectedInvalidTopicId})
			return
		}
	default: // Normal: register-on-the-fly if this name hasn't been seen
		topicName = m.TopicName
		id, isNew, err := op.state.RegMgr.MapTopicId(topicName)
		if err != nil {
			_ = op.sendToClient(&snpacket.SUBACK{MsgId: m.MsgId, ReturnCode: snpacket.ReturnRejectedCongestion})
			return
		}
		if isNew {
			noteTopicRegistered()
		}
		topicID = id
	}

	op.subInFlight = true
	op.subClientMsgID = m.MsgId
	op.subTopicID = topicID
	op.subBrokerPacket = op.allocBrokerPacketID()
	op.attempt = 0
	op.deadlineMs = op.state.RetryPeriodMs

	qos := translateQosFromSN(m.Flags.QoS())
	_ = op.sendToBroker(&packet.SUBSCRIBE{
		FixedHeader: &packet.FixedHeader{Version: packet.VERSION311, Kind: 0x8, QoS: 1},
		PacketID:    op.subBrokerPacket,
		Subscriptions: []packet.Subscription{
			{TopicFilter: topicName, MaximumQoS: translateQosForBroker(qos)},
		},
	})
}

func (op *forwardOp) startUnsubscribe(m *snpacket.UNSUBSCRIBE) {
	if op.subInFlight || op.unsubInFlight {
		log.Printf("session[%s]: forward: dropping overlapping unsubscribe", op.state.ClientID)
		return
	}

	var topicName string
	var ok bool
	switch m.Flags.TopicIdType() {
	case snpacket.TopicIdShortName:
		topicName, ok = m.TopicName, true
	default:
		topicName, ok = op.state.RegMgr.MapTopicName(m.TopicId)
	}
	if !ok {
		_ = op.sendToClient(&snpacket.UNSUBACK{MsgId: m.MsgId})
		return
	}

	op.unsubInFlight = true
	op.unsubClientMsgID = m.MsgId
	op.unsubBrokerPacket = op.allocBrokerPacketID()
	op.attempt = 0
	op.deadlineMs = op.state.RetryPeriodMs

	_ = op.sendToBroker(&packet.UNSUBSCRIBE{
		FixedHeader:   &packet.FixedHeader{Version: packet.VERSION311, Kind: 0xA, QoS: 1},
		PacketID:      op.unsubBrokerPacket,
		Subscriptions: []packet.Subscription{{TopicFilter: topicName}},
	})
}

func (op *forwardOp) HandleBrokerMsg(p packet.Packet) bool {
	switch m := p.(type) {
	case *packet.SUBACK:
		if !op.subInFlight || m.PacketID != op.subBrokerPacket {
			return false
		}
		rc := snpacket.ReturnRejectedNotSupported
		if len(m.ReasonCode) > 0 && m.ReasonCode[0].Code <= 0x02 {
			rc = snpacket.ReturnAccepted
		}
		_ = op.sendToClient(&snpacket.SUBACK{TopicId: op.subTopicID, MsgId: op.subClientMsgID, ReturnCode: rc})
		op.clearSub()
		return true
	case *packet.UNSUBACK:
		if !op.unsubInFlight || m.PacketID != op.unsubBrokerPacket {
			return false
		}
		_ = op.sendToClient(&snpacket.UNSUBACK{MsgId: op.unsubClientMsgID})
		op.clearUnsub()
		return true
	}
	return false
}

func (op *forwardOp) allocBrokerPacketID() uint16 {
	op.nextBrokerPacketID++
	if op.nextBrokerPacketID == 0 {
		op.nextBrokerPacketID = 1
	}
	return op.nextBrokerPacketID
}

func (op *forwardOp) NextTickMs() (uint32, bool) {
	if !op.subInFlight && !op.unsubInFlight {
		return 0, false
	}
	return op.deadlineMs, true
}

func (op *forwardOp) Tick() {
	op.attempt++
	if op.attempt >= op.state.RetryCount {
		if op.subInFlight {
			_ = op.sendToClient(&snpacket.SUBACK{TopicId: op.subTopicID, MsgId: op.subClientMsgID, ReturnCode: snpacket.ReturnRejectedCongestion})
			op.clearSub()
		}
		if op.unsubInFlight {
			_ = op.sendToClient(&snpacket.UNSUBACK{MsgId: op.unsubClientMsgID})
			op.clearUnsub()
		}
		return
	}
	op.deadlineMs = op.state.RetryPeriodMs
}

func (op *forwardOp) clearSub() {
	op.subInFlight = false
	op.attempt = 0
	op.deadlineMs = 0
}

func (op *forwardOp) clearUnsub() {
	op.unsubInFlight = false
	op.attempt = 0
	op.deadlineMs = 0
}
