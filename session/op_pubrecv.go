package session

import (
	"log"

	"github.com/golang-io/mqttsn-gateway/packet"
	"github.com/golang-io/mqttsn-gateway/snpacket"
)

type pubRecvPhase int

const (
	recvIdle pubRecvPhase = iota
	recvAwaitingRegAck
	recvAwaitingPuback
	recvAwaitingPubrec
	recvAwaitingPubcomp
)

// pubRecvOp implements 4.4.5 PubRecv: broker-to-client publishes, with a
// REGISTER_SN handshake performed the first time a topic name is seen,
// and the sleeping-client buffering described in 4.4.3.
type pubRecvOp struct {
	base

	phase pubRecvPhase

	topicID   uint16
	topicName string
	payload   []byte
	qos       QoS
	retain    bool
	dup       bool

	clientMsgID     uint16
	nextClientMsgID uint16

	attempt    uint32
	deadlineMs uint32
}

func (op *pubRecvOp) HandleBrokerMsg(p packet.Packet) bool {
	m, ok := p.(*packet.PUBLISH)
	if !ok {
		return false
	}

	if op.state.ConnStatus == Asleep {
		op.state.PushBrokerPub(PubInfo{
			Topic:   m.Message.TopicName,
			Payload: m.Message.Content,
			QoS:     QoS(m.FixedHeader.QoS),
			Retain:  m.FixedHeader.Retain == 1,
		})
		return true
	}

	if op.phase != recvIdle {
		log.Printf("session[%s]: pubrecv: dropping overlapping broker publish", op.state.ClientID)
		return true
	}

	op.startDelivery(m.Message.TopicName, m.Message.Content, QoS(m.FixedHeader.QoS), m.FixedHeader.Retain == 1, m.FixedHeader.Dup == 1)
	return true
}

// FlushNext pulls the next sleeping-client-buffered publish and starts
// delivering it; used by pingOp while waking a sleeping client. Reports
// false when there is nothing buffered or a delivery is already underway.
func (op *pubRecvOp) FlushNext() bool {
	if op.phase != recvIdle {
		return false
	}
	p, ok := op.state.PopBrokerPub()
	if !ok {
		return false
	}
	op.startDelivery(p.Topic, p.Payload, p.QoS, p.Retain, p.Dup)
	return true
}

// Idle reports whether this op has no in-flight delivery — used by
// pingOp to know when it may either flush the next buffered message or
// conclude the wake-up flush.
func (op *pubRecvOp) Idle() bool { return op.phase == recvIdle }

func (op *pubRecvOp) startDelivery(topicName string, payload []byte, qos QoS, retain, dup bool) {
	id, isNew, err := op.state.RegMgr.MapTopicId(topicName)
	if err != nil {
		log.Printf("session[%s]: pubrecv: %v, dropping publish for %q", op.state.ClientID, err, topicName)
		return
	}
	op.topicID = id
	op.topicName = topicName
	op.payload = payload
	op.qos = qos
	op.retain = retain
	op.dup = dup
	op.clientMsgID = op.allocClientMsgID()
	op.attempt = 0
	op.deadlineMs = op.state.RetryPeriodMs

	if isNew {
		noteTopicRegistered()
		op.phase = recvAwaitingRegAck
		_ = op.sendToClient(&snpacket.REGISTER{TopicId: id, MsgId: op.clientMsgID, TopicName: topicName})
		return
	}
	op.deliver()
}

func (op *pubRecvOp) deliver() {
	op.attempt = 0
	op.deadlineMs = op.state.RetryPeriodMs
	flags := snpacket.NewFlags(op.dup, int8(translateQosForClient(op.qos)), op.retain, false, false, snpacket.TopicIdNormal)
	pub := &snpacket.PUBLISH{Flags: flags, TopicId: op.topicID, MsgId: op.clientMsgID, Data: op.payload}
	switch op.qos {
	case QoSAtMostOnce:
		_ = op.sendToClient(pub)
		op.clear()
	case QoSAtLeastOnce:
		op.phase = recvAwaitingPuback
		_ = op.sendToClient(pub)
	case QoSExactlyOnce:
		op.phase = recvAwaitingPubrec
		_ = op.sendToClient(pub)
	}
}

func (op *pubRecvOp) allocClientMsgID() uint16 {
	op.nextClientMsgID++
	if op.nextClientMsgID == 0 {
		op.nextClientMsgID = 1
	}
	return op.nextClientMsgID
}

func (op *pubRecvOp) HandleClientMsg(msg snpacket.Message) bool {
	switch m := msg.(type) {
	case *snpacket.REGACK:
		if op.phase != recvAwaitingRegAck || m.MsgId != op.clientMsgID {
			return false
		}
		if m.ReturnCode != snpacket.ReturnAccepted {
			if op.state.RegMgr.DiscardRegistration(op.topicID) == nil {
				noteTopicDiscarded()
			}
			log.Printf("session[%s]: pubrecv: register rejected (%s), dropping publish for %q", op.state.ClientID, m.ReturnCode, op.topicName)
			op.clear()
			return true
		}
		op.deliver()
		return true
	case *snpacket.PUBACK:
		if op.phase != recvAwaitingPuback || m.MsgId != op.clientMsgID {
			return false
		}
		op.clear()
		return true
	case *snpacket.PUBREC:
		if op.phase != recvAwaitingPubrec || m.MsgId != op.clientMsgID {
			return false
		}
		op.phase = recvAwaitingPubcomp
		op.attempt = 0
		op.deadlineMs = op.state.RetryPeriodMs
		_ = op.sendToClient(&snpacket.PUBREL{MsgId: op.clientMsgID})
		return true
	case *snpacket.PUBCOMP:
		if op.phase != recvAwaitingPubcomp || m.MsgId != op.clientMsgID {
			return false
		}
		op.clear()
		return true
	}
	return false
}

func (op *pubRecvOp) NextTickMs() (uint32, bool) {
	if op.phase == recvIdle {
		return 0, false
	}
	return op.deadlineMs, true
}

func (op *pubRecvOp) Tick() {
	op.attempt++
	if op.attempt >= op.state.RetryCount {
		log.Printf("session[%s]: pubrecv: retries exhausted for %q", op.state.ClientID, op.topicName)
		op.clear()
		return
	}
	op.deadlineMs = op.state.RetryPeriodMs
	switch op.phase {
	case recvAwaitingRegAck:
		_ = op.sendToClient(&snpacket.REGISTER{TopicId: op.topicID, MsgId: op.clientMsgID, TopicName: op.topicName})
	case recvAwaitingPuback, recvAwaitingPubrec:
		flags := snpacket.NewFlags(true, int8(translateQosForClient(op.qos)), op.retain, false, false, snpacket.TopicIdNormal)
		_ = op.sendToClient(&snpacket.PUBLISH{Flags: flags, TopicId: op.topicID, MsgId: op.clientMsgID, Data: op.payload})
	case recvAwaitingPubcomp:
		_ = op.sendToClient(&snpacket.PUBREL{MsgId: op.clientMsgID})
	}
}

func (op *pubRecvOp) clear() {
	op.phase = recvIdle
	op.attempt = 0
	op.deadlineMs = 0
}
