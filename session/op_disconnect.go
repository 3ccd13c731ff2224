package session

import (
	"log"

	"github.com/golang-io/mqttsn-gateway/packet"
	"github.com/golang-io/mqttsn-gateway/snpacket"
)

// disconnectOp implements 4.4.2 Disconnect: a DISCONNECT_SN carrying a
// duration puts the client to sleep (the broker link stays up); one
// without a duration tears the session down fully.
type disconnectOp struct {
	base
}

func (op *disconnectOp) HandleClientMsg(msg snpacket.Message) bool {
	d, ok := msg.(*snpacket.DISCONNECT)
	if !ok {
		return false
	}
	if d.HasDuration {
		op.state.ConnStatus = Asleep
		op.state.KeepAliveS = d.Duration
		_ = op.sendToClient(&snpacket.DISCONNECT{})
		return true
	}
	_ = op.sendToBroker(&packet.DISCONNECT{FixedHeader: &packet.FixedHeader{Version: packet.VERSION311, Kind: 0xE}})
	_ = op.sendToClient(&snpacket.DISCONNECT{})
	op.state.PendingClientDisconnect = true
	op.state.ConnStatus = Disconnected
	op.terminate()
	return true
}

func (op *disconnectOp) HandleBrokerMsg(p packet.Packet) bool {
	if _, ok := p.(*packet.DISCONNECT); !ok {
		return false
	}
	log.Printf("session[%s]: broker requested disconnect", op.state.ClientID)
	op.state.ConnStatus = Disconnected
	op.terminate()
	return true
}
