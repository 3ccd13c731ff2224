package session

import (
	"github.com/golang-io/mqttsn-gateway/snpacket"
)

// willUpdateOp implements 4.4.7: WILLTOPICUPD_SN/WILLMSGUPD_SN update the
// stored will in place. Since the broker only learns a will at CONNECT
// time, an update while already connected forces a reconnect so the new
// will is carried on the next CONNECT.
type willUpdateOp struct {
	base
}

func (op *willUpdateOp) HandleClientMsg(msg snpacket.Message) bool {
	switch m := msg.(type) {
	case *snpacket.WILLTOPICUPD:
		if m.WillTopic == "" {
			op.state.Will = WillInfo{}
		} else {
			op.state.Will.Topic = m.WillTopic
			op.state.Will.QoS = translateQosFromSN(m.Flags.QoS())
			op.state.Will.Retain = m.Flags.Retain()
		}
		_ = op.sendToClient(&snpacket.WILLTOPICRESP{ReturnCode: snpacket.ReturnAccepted})
		op.reconnectIfConnected()
		return true
	case *snpacket.WILLMSGUPD:
		op.state.Will.Msg = append([]byte{}, m.WillMsg...)
		_ = op.sendToClient(&snpacket.WILLMSGRESP{ReturnCode: snpacket.ReturnAccepted})
		op.reconnectIfConnected()
		return true
	}
	return false
}

func (op *willUpdateOp) reconnectIfConnected() {
	if op.state.ConnStatus == Connected {
		op.reconnectBroker()
	}
}
