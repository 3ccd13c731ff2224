package snpacket

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Kind MQTT-SN message type identifiers, MQTT-SN 1.2 section 5.
var Kind = map[byte]string{
	0x00: "[0x00]ADVERTISE",
	0x01: "[0x01]SEARCHGW",
	0x02: "[0x02]GWINFO",
	0x04: "[0x04]CONNECT",
	0x05: "[0x05]CONNACK",
	0x06: "[0x06]WILLTOPICREQ",
	0x07: "[0x07]WILLTOPIC",
	0x08: "[0x08]WILLMSGREQ",
	0x09: "[0x09]WILLMSG",
	0x0A: "[0x0A]REGISTER",
	0x0B: "[0x0B]REGACK",
	0x0C: "[0x0C]PUBLISH",
	0x0D: "[0x0D]PUBACK",
	0x0E: "[0x0E]PUBCOMP",
	0x0F: "[0x0F]PUBREC",
	0x10: "[0x10]PUBREL",
	0x12: "[0x12]SUBSCRIBE",
	0x13: "[0x13]SUBACK",
	0x14: "[0x14]UNSUBSCRIBE",
	0x15: "[0x15]UNSUBACK",
	0x16: "[0x16]PINGREQ",
	0x17: "[0x17]PINGRESP",
	0x18: "[0x18]DISCONNECT",
	0x19: "[0x19]WILLTOPICUPD",
	0x1A: "[0x1A]WILLTOPICRESP",
	0x1B: "[0x1B]WILLMSGUPD",
	0x1C: "[0x1C]WILLMSGRESP",
}

// DecodeError is the small closed taxonomy every message decode collapses to.
type DecodeError byte

const (
	Ok DecodeError = iota
	NotEnoughData
	ProtocolError
	InvalidMsgId
	MsgAllocFailure
)

func (e DecodeError) Error() string {
	switch e {
	case Ok:
		return "ok"
	case NotEnoughData:
		return "not enough data"
	case ProtocolError:
		return "protocol error"
	case InvalidMsgId:
		return "invalid message id"
	case MsgAllocFailure:
		return "message allocation failure"
	default:
		return fmt.Sprintf("decode error %d", byte(e))
	}
}

// TopicIdType occupies bits 1-0 of the Flags field.
type TopicIdType uint8

const (
	TopicIdNormal    TopicIdType = 0x0
	TopicIdPreDefined TopicIdType = 0x1
	TopicIdShortName  TopicIdType = 0x2
)

// Flags the bitfield carried by CONNECT, WILLTOPIC(UPD), REGISTER, PUBLISH,
// SUBSCRIBE and UNSUBSCRIBE: {dup:1, qos:2, retain:1, will:1, cleanSession:1, topicIdType:2}.
type Flags uint8

func (f Flags) Dup() bool          { return uint8(f)&0x80 == 0x80 }
func (f Flags) QoS() int8          { q := int8((uint8(f) >> 5) & 0x03); if q == 3 { return -1 }; return q }
func (f Flags) Retain() bool       { return uint8(f)&0x10 == 0x10 }
func (f Flags) Will() bool         { return uint8(f)&0x08 == 0x08 }
func (f Flags) CleanSession() bool { return uint8(f)&0x04 == 0x04 }
func (f Flags) TopicIdType() TopicIdType {
	return TopicIdType(uint8(f) & 0x03)
}

// NewFlags builds a Flags byte. qos may be -1 (encoded as the reserved value 3).
func NewFlags(dup bool, qos int8, retain, will, cleanSession bool, tt TopicIdType) Flags {
	var f uint8
	if dup {
		f |= 0x80
	}
	q := uint8(qos)
	if qos < 0 {
		q = 0x03
	}
	f |= (q & 0x03) << 5
	if retain {
		f |= 0x10
	}
	if will {
		f |= 0x08
	}
	if cleanSession {
		f |= 0x04
	}
	f |= uint8(tt) & 0x03
	return Flags(f)
}

// ReturnCode the one-byte status carried by CONNACK, REGACK, SUBACK, PUBACK.
type ReturnCode uint8

const (
	ReturnAccepted              ReturnCode = 0x00
	ReturnRejectedCongestion    ReturnCode = 0x01
	ReturnRejectedInvalidTopicId ReturnCode = 0x02
	ReturnRejectedNotSupported  ReturnCode = 0x03
)

func (rc ReturnCode) String() string {
	switch rc {
	case ReturnAccepted:
		return "accepted"
	case ReturnRejectedCongestion:
		return "rejected: congestion"
	case ReturnRejectedInvalidTopicId:
		return "rejected: invalid topic id"
	case ReturnRejectedNotSupported:
		return "rejected: not supported"
	default:
		return fmt.Sprintf("return code %d", uint8(rc))
	}
}

// decodeHeader reads the length+type prefix. Per section 3: a first length
// byte of 0x01 means a 3-byte length field follows (big-endian, counting the
// 3 header bytes and the type byte); otherwise the first byte is the total
// length directly. Returns the declared total length (header included), the
// header's own width (1 or 3), and the message type.
func decodeHeader(buf *bytes.Buffer) (total int, headerLen int, kind byte, err error) {
	if buf.Len() < 2 {
		return 0, 0, 0, NotEnoughData
	}
	b := buf.Bytes()
	if b[0] == 0x01 {
		if buf.Len() < 4 {
			return 0, 0, 0, NotEnoughData
		}
		total = int(binary.BigEndian.Uint16(b[1:3]))
		headerLen = 3
		kind = b[3]
		return total, headerLen, kind, nil
	}
	total = int(b[0])
	headerLen = 1
	kind = b[1]
	return total, headerLen, kind, nil
}

// encodeHeader writes the length+type prefix for a body of bodyLen bytes
// (not counting the header itself).
func encodeHeader(buf *bytes.Buffer, kind byte, bodyLen int) error {
	total := headerWidth(bodyLen) + 1 + bodyLen
	if total > 0xFFFF {
		return ProtocolError
	}
	if total <= 0xFF {
		buf.WriteByte(byte(total))
	} else {
		buf.WriteByte(0x01)
		var lb [2]byte
		binary.BigEndian.PutUint16(lb[:], uint16(total))
		buf.Write(lb[:])
	}
	buf.WriteByte(kind)
	return nil
}

func headerWidth(bodyLen int) int {
	if 1+1+bodyLen > 0xFF {
		return 3
	}
	return 1
}

func s2b(s string) []byte { return []byte(s) }
