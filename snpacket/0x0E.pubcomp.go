package snpacket

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// PUBCOMP completes a QoS 2 PUBLISH exchange. Body: MsgId(2).
type PUBCOMP struct {
	MsgId uint16
}

func (pkt *PUBCOMP) Kind() byte { return 0x0E }

func (pkt *PUBCOMP) Pack(buf *bytes.Buffer) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], pkt.MsgId)
	buf.Write(b[:])
	return nil
}

func (pkt *PUBCOMP) Unpack(body []byte) error {
	if len(body) != 2 {
		return ProtocolError
	}
	pkt.MsgId = binary.BigEndian.Uint16(body)
	return nil
}

func (pkt *PUBCOMP) String() string {
	return fmt.Sprintf("[0x0E]PUBCOMP msgId=%d", pkt.MsgId)
}
