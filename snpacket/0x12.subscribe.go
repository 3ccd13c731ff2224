package snpacket

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// SUBSCRIBE topic subscription request. Body: Flags(1), MsgId(2), Topic(rest).
// The Topic field is a 2-byte TopicId when Flags.TopicIdType is PreDefined,
// otherwise a TopicName string (normal name or 2-byte short name).
type SUBSCRIBE struct {
	Flags     Flags
	MsgId     uint16
	TopicId   uint16
	TopicName string
}

func (pkt *SUBSCRIBE) Kind() byte { return 0x12 }

func (pkt *SUBSCRIBE) Pack(buf *bytes.Buffer) error {
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

func (pkt *SUBSCRIBE) Unpack(body []byte) error {
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

func (pkt *SUBSCRIBE) String() string {
	return fmt.Sprintf("[0x12]SUBSCRIBE msgId=%d topicId=%d name=%s qos=%d", pkt.MsgId, pkt.TopicId, pkt.TopicName, pkt.Flags.QoS())
}
