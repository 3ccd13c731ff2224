package snpacket

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// PUBREC is step two of a QoS 2 PUBLISH exchange. Body: MsgId(2).
type PUBREC struct {
	MsgId uint16
}

func (pkt *PUBREC) Kind() byte { return 0x0F }

func (pkt *PUBREC) Pack(buf *bytes.Buffer) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], pkt.MsgId)
	buf.Write(b[:])
	return nil
}

func (pkt *PUBREC) Unpack(body []byte) error {
	if len(body) != 2 {
		return ProtocolError
	}
	pkt.MsgId = binary.BigEndian.Uint16(body)
	return nil
}

func (pkt *PUBREC) String() string {
	return fmt.Sprintf("[0x0F]PUBREC msgId=%d", pkt.MsgId)
}
