package snpacket

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// PUBLISH message delivery. Body: Flags(1), TopicId(2), MsgId(2), Data(rest).
// TopicId's interpretation (normal/predefined/short name) is carried in Flags.
type PUBLISH struct {
	Flags   Flags
	TopicId uint16
	MsgId   uint16
	Data    []byte
}

func (pkt *PUBLISH) Kind() byte { return 0x0C }

func (pkt *PUBLISH) Pack(buf *bytes.Buffer) error {
	buf.WriteByte(byte(pkt.Flags))
	var b [4]byte
	binary.BigEndian.PutUint16(b[0:2], pkt.TopicId)
	binary.BigEndian.PutUint16(b[2:4], pkt.MsgId)
	buf.Write(b[:])
	buf.Write(pkt.Data)
	return nil
}

func (pkt *PUBLISH) Unpack(body []byte) error {
	if len(body) < 5 {
		return ProtocolError
	}
	pkt.Flags = Flags(body[0])
	pkt.TopicId = binary.BigEndian.Uint16(body[1:3])
	pkt.MsgId = binary.BigEndian.Uint16(body[3:5])
	pkt.Data = append([]byte{}, body[5:]...)
	return nil
}

func (pkt *PUBLISH) String() string {
	return fmt.Sprintf("[0x0C]PUBLISH topicId=%d msgId=%d qos=%d len=%d", pkt.TopicId, pkt.MsgId, pkt.Flags.QoS(), len(pkt.Data))
}
