package snpacket

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// SUBACK acknowledges a SUBSCRIBE. Body: Flags(1), TopicId(2), MsgId(2), ReturnCode(1).
type SUBACK struct {
	Flags      Flags
	TopicId    uint16
	MsgId      uint16
	ReturnCode ReturnCode
}

func (pkt *SUBACK) Kind() byte { return 0x13 }

func (pkt *SUBACK) Pack(buf *bytes.Buffer) error {
	buf.WriteByte(byte(pkt.Flags))
	var b [4]byte
	binary.BigEndian.PutUint16(b[0:2], pkt.TopicId)
	binary.BigEndian.PutUint16(b[2:4], pkt.MsgId)
	buf.Write(b[:])
	buf.WriteByte(byte(pkt.ReturnCode))
	return nil
}

func (pkt *SUBACK) Unpack(body []byte) error {
	if len(body) != 6 {
		return ProtocolError
	}
	pkt.Flags = Flags(body[0])
	pkt.TopicId = binary.BigEndian.Uint16(body[1:3])
	pkt.MsgId = binary.BigEndian.Uint16(body[3:5])
	pkt.ReturnCode = ReturnCode(body[5])
	return nil
}

func (pkt *SUBACK) String() string {
	return fmt.Sprintf("[0x13]SUBACK topicId=%d msgId=%d qos=%d rc=%s", pkt.TopicId, pkt.MsgId, pkt.Flags.QoS(), pkt.ReturnCode)
}
