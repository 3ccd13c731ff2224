package snpacket

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ProtocolId is the only value defined by MQTT-SN 1.2; any other value in a
// CONNECT message must be rejected with CONNACK(NotSupported).
const ProtocolId uint8 = 0x01

// CONNECT client connection request. Body: Flags(1), ProtocolId(1),
// Duration(2), ClientId(1-23 bytes, unprefixed — the rest of the body).
type CONNECT struct {
	Flags    Flags
	Duration uint16
	ClientId string
}

func (pkt *CONNECT) Kind() byte { return 0x04 }

func (pkt *CONNECT) Pack(buf *bytes.Buffer) error {
	if len(pkt.ClientId) == 0 || len(pkt.ClientId) > 23 {
		return fmt.Errorf("client id length %d out of range [1,23]", len(pkt.ClientId))
	}
	buf.WriteByte(byte(pkt.Flags))
	buf.WriteByte(ProtocolId)
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], pkt.Duration)
	buf.Write(b[:])
	buf.WriteString(pkt.ClientId)
	return nil
}

func (pkt *CONNECT) Unpack(body []byte) error {
	if len(body) < 5 {
		return ProtocolError
	}
	pkt.Flags = Flags(body[0])
	if body[1] != ProtocolId {
		return ProtocolError
	}
	pkt.Duration = binary.BigEndian.Uint16(body[2:4])
	pkt.ClientId = string(body[4:])
	if len(pkt.ClientId) == 0 || len(pkt.ClientId) > 23 {
		return ProtocolError
	}
	return nil
}

func (pkt *CONNECT) String() string {
	return fmt.Sprintf("[0x04]CONNECT clientId=%s duration=%d will=%v clean=%v",
		pkt.ClientId, pkt.Duration, pkt.Flags.Will(), pkt.Flags.CleanSession())
}
