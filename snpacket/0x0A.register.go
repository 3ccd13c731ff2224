package snpacket

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// REGISTER announces a topic name/id mapping. Body: TopicId(2), MsgId(2),
// TopicName(rest). A client-originated REGISTER carries TopicId 0x0000; the
// registrar assigns the real id and echoes it back in REGACK.
type REGISTER struct {
	TopicId   uint16
	MsgId     uint16
	TopicName string
}

func (pkt *REGISTER) Kind() byte { return 0x0A }

func (pkt *REGISTER) Pack(buf *bytes.Buffer) error {
	var b [4]byte
	binary.BigEndian.PutUint16(b[0:2], pkt.TopicId)
	binary.BigEndian.PutUint16(b[2:4], pkt.MsgId)
	buf.Write(b[:])
	buf.WriteString(pkt.TopicName)
	return nil
}

func (pkt *REGISTER) Unpack(body []byte) error {
	if len(body) < 5 {
		return ProtocolError
	}
	pkt.TopicId = binary.BigEndian.Uint16(body[0:2])
	pkt.MsgId = binary.BigEndian.Uint16(body[2:4])
	pkt.TopicName = string(body[4:])
	return nil
}

func (pkt *REGISTER) String() string {
	return fmt.Sprintf("[0x0A]REGISTER topicId=%d msgId=%d name=%s", pkt.TopicId, pkt.MsgId, pkt.TopicName)
}
