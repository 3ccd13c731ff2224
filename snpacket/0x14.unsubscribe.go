package snpacket

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// UNSUBSCRIBE cancels a subscription. Same variable shape as SUBSCRIBE:
// Flags(1), MsgId(2), Topic(rest).
type UNSUBSCRIBE struct {
	Flags     Flags
	MsgId     uint16
	TopicId   uint16
	TopicName string
}

func (pkt *UNSUBSCRIBE) Kind() byte { return 0x14 }

func (pkt *UNSUBSCRIBE) Pack(buf *bytes.Buffer) error {
	buf.WriteByte(byte(pkt.Flags))
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], pkt.MsgId)
	buf.Write(b[:])
	if pkt.Flags.TopicIdType() == TopicIdPreDefined {
		var t [2]byte
		binary.BigEndian.PutUint16(t[:], pkt.TopicId)
		buf.Write(t[:])
		return nil
	}
	buf.WriteString(pkt.TopicName)
	return nil
}

func (pkt *UNSUBSCRIBE) Unpack(body []byte) error {
	if len(body) < 3 {
		return ProtocolError
	}
	pkt.Flags = Flags(body[0])
	pkt.MsgId = binary.BigEndian.Uint16(body[1:3])
	rest := body[3:]
	if pkt.Flags.TopicIdType() == TopicIdPreDefined {
		if len(rest) != 2 {
			return ProtocolError
		}
		pkt.TopicId = binary.BigEndian.Uint16(rest)
		return nil
	}
	pkt.TopicName = string(rest)
	return nil
}

func (pkt *UNSUBSCRIBE) String() string {
	return fmt.Sprintf("[0x14]UNSUBSCRIBE msgId=%d topicId=%d name=%s", pkt.MsgId, pkt.TopicId, pkt.TopicName)
}
