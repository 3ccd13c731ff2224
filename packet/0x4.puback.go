package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// PUBACK 发布确认报文 (QoS 1)
//
// 参考章节: 3.4 PUBACK - Publish acknowledgement
//
// 报文结构:
// 固定报头: 报文类型0x04，标志位必须为0
// 可变报头: 报文标识符
// 载荷: 无载荷
//
// 标志位规则:
// - DUP: 必须为0
// - QoS: 必须为0
// - RETAIN: 必须为0
type PUBACK struct {
	*FixedHeader

	// PacketID 报文标识符
	// 参考章节: 2.3.1 Packet Identifier
	// 位置: 可变报头唯一字段
	// 要求: 必须包含，范围1-65535
	// 用途: 用于标识对应的PUBLISH报文，确保确认的可靠性
	PacketID uint16
}

func (pkt *PUBACK) Kind() byte {
	return 0x4
}

func (pkt *PUBACK) Pack(w io.Writer) error {
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

func (pkt *PUBACK) Unpack(buf *bytes.Buffer) error {
	pkt.PacketID = binary.BigEndian.Uint16(buf.Next(2))
	return nil
}
