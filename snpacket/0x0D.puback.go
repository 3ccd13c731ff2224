package snpacket

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// PUBACK acknowledges a QoS 1 PUBLISH. Body: TopicId(2), MsgId(2), ReturnCode(1).
type PUBACK struct {
	TopicId    uint16
	MsgId      uint16
	ReturnCode ReturnCode
}

func (pkt *PUBACK) Kind() byte { return 0x0D }

func (pkt *PUBACK) Pack(buf *bytes.Buffer) error {
	var b [4]byte
	binary.BigEndian.PutUint16(b[0:2], pkt.TopicId)
	binary.BigEndian.PutUint16(b[2:4], pkt.MsgId)
	buf.Write(b[:])
	buf.WriteByte(byte(pkt.ReturnCode))
	return nil
}

func (pkt *PUBACK) Unpack(body []byte) error {
	if len(body) != 5 {
		return ProtocolError
	}
	pkt.TopicId = binary.BigEndian.Uint16(body[0:2])
	pkt.MsgId = binary.BigEndian.Uint16(body[2:4])
	pkt.ReturnCode = ReturnCode(body[4])
	return nil
}

func (pkt *PUBACK) String() string {
	return fmt.Sprintf("[0x0D]PUBACK topicId=%d msgId=%d rc=%s", pkt.TopicId, pkt.MsgId, pkt.ReturnCode)
}
