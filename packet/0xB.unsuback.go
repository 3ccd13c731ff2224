package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// UNSUBACK 取消订阅确认报文
//
// 参考章节: 3.11 UNSUBACK - Unsubscribe acknowledgement
//
// 报文结构:
// 固定报头: 报文类型0x0B，标志位必须为0
// 可变报头: 报文标识符
// 载荷: 无载荷
//
// 标志位规则:
// - DUP: 必须为0
// - QoS: 必须为0
// - RETAIN: 必须为0
type UNSUBACK struct {
	*FixedHeader `json:"FixedHeader,omitempty"`

	// PacketID 报文标识符
	// 参考章节: 2.3.1 Packet Identifier
	// 位置: 可变报头唯一字段
	// 要求: 必须包含，范围1-65535
	PacketID uint16 `json:"PacketID,omitempty"`
}

func (pkt *UNSUBACK) Kind() byte {
	return 0xB
}

func (pkt *UNSUBACK) Pack(w io.Writer) error {
	buf := GetBuffer()
	defer PutBuffer(buf)

	buf.Write(i2b(pkt.PacketID))
	pkt.FixedHeader.RemainingLength = uint32(buf.Len())

	if err := pkt.FixedHeader.Pack(w); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func (pkt *UNSUBACK) Unpack(buf *bytes.Buffer) error {
	if pkt.FixedHeader.RemainingLength != 2 {
		return ErrMalformedPacket
	}
	pkt.PacketID = binary.BigEndian.Uint16(buf.Bytes())

	switch pkt.Version {
	case VERSION311:
	case VERSION310:
		return ErrUnsupportedProtocolVersion
	default:
		return ErrMalformedProtocolVersion
	}
	return nil
}
