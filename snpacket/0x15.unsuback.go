package snpacket

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// UNSUBACK acknowledges an UNSUBSCRIBE. Body: MsgId(2).
type UNSUBACK struct {
	MsgId uint16
}

func (pkt *UNSUBACK) Kind() byte { return 0x15 }

func (pkt *UNSUBACK) Pack(buf *bytes.Buffer) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], pkt.MsgId)
	buf.Write(b[:])
	return nil
}

func (pkt *UNSUBACK) Unpack(body []byte) error {
	if len(body) != 2 {
		return ProtocolError
	}
	pkt.MsgId = binary.BigEndian.Uint16(body)
	return nil
}

func (pkt *UNSUBACK) String() string {
	return fmt.Sprintf("[0x15]UNSUBACK msgId=%d", pkt.MsgId)
}
