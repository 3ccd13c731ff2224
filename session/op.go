package session

import (
	"bytes"

	"github.com/golang-io/mqttsn-gateway/packet"
	"github.com/golang-io/mqttsn-gateway/snpacket"
)

// Op is implemented by every session operation (Connect, Disconnect,
// PubSend, PubRecv, Forward, WillUpdate, PingReq/PingResp). The Session
// presents each inbound message to every Op in order; an Op reports
// whether it consumed the message (stopping further propagation).
type Op interface {
	// HandleClientMsg is given a decoded MQTT-SN message from the client.
	// consumed == true stops the message from reaching later ops.
	HandleClientMsg(msg snpacket.Message) (consumed bool)
	// HandleBrokerMsg is given a decoded MQTT message from the broker.
	HandleBrokerMsg(msg packet.Packet) (consumed bool)
	// NextTickMs reports this op's earliest outstanding wake-up, in
	// milliseconds from now, or (0, false) if it has none pending.
	NextTickMs() (ms uint32, pending bool)
	// Tick fires when this op's wake-up (as last reported by NextTickMs)
	// has elapsed.
	Tick()
	// BrokerConnectionUpdated notifies the op of a change in
	// State.BrokerConnected, e.g. to resume a stalled handshake.
	BrokerConnectionUpdated()
}

// base gives every concrete Op the shared State reference and a default,
// no-op implementation of the Op methods an op doesn't care about, since
// most concrete ops only override a couple of these.
type base struct {
	state *State
	s     *Session
}

func (b *base) HandleClientMsg(snpacket.Message) bool  { return false }
func (b *base) HandleBrokerMsg(packet.Packet) bool      { return false }
func (b *base) NextTickMs() (uint32, bool)              { return 0, false }
func (b *base) Tick()                                   {}
func (b *base) BrokerConnectionUpdated()                {}

// sendToClient/sendToBroker/terminate/reconnectBroker are convenience
// passthroughs to the owning Session's driver, used by every op.
func (b *base) sendToClient(msg snpacket.Message) error {
	encoded, err := snpacket.Encode(msg)
	if err != nil {
		return err
	}
	metrics.PacketsToClient.Inc()
	metrics.BytesToClient.Add(float64(len(encoded)))
	return b.s.driver.SendToClient(encoded)
}

func (b *base) sendToBroker(p packet.Packet) error {
	buf := new(bytes.Buffer)
	if err := p.Pack(buf); err != nil {
		return err
	}
	metrics.PacketsToBroker.Inc()
	metrics.BytesToBroker.Add(float64(buf.Len()))
	return b.s.driver.SendToBroker(buf.Bytes())
}

func (b *base) terminate() {
	b.state.Terminating = true
}

func (b *base) reconnectBroker() {
	b.state.ReconnectingBroker = true
	b.s.driver.RequestBrokerReconnect()
}
