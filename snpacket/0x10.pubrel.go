package snpacket

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// PUBREL is step three of a QoS 2 PUBLISH exchange. Body: MsgId(2).
type PUBREL struct {
	MsgId uint16
}

func (pkt *PUBREL) Kind() byte { return 0x10 }

func (pkt *PUBREL) Pack(buf *bytes.Buffer) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], pkt.MsgId)
	buf.Write(b[:])
	return nil
}

func (pkt *PUBREL) Unpack(body []byte) error {
	if len(body) != 2 {
		return ProtocolError
	}
	pkt.MsgId = binary.BigEndian.Uint16(body)
	return nil
}

func (pkt *PUBREL) String() string {
	return fmt.Sprintf("[0x10]PUBREL msgId=%d", pkt.MsgId)
}
