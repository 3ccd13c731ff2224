package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// PUBCOMP 发布完成报文 (QoS 2第三步)
//
// 参考章节: 3.7 PUBCOMP - Publish complete (QoS 2 publish received, part 3)
//
// 报文结构:
// 固定报头: 报文类型0x07，标志位必须为0
// 可变报头: 报文标识符
// 载荷: 无载荷
//
// QoS 2流程:
// 1. 客户端发送PUBLISH (QoS=2)
// 2. 服务端响应PUBREC
// 3. 客户端发送PUBREL
// 4. 服务端响应PUBCOMP ← 当前报文
//
// 标志位规则:
// - DUP: 必须为0
// - QoS: 必须为0
// - RETAIN: 必须为0
type PUBCOMP struct {
	*FixedHeader `json:"FixedHeader,omitempty"`

	// PacketID 报文标识符
	// 参考章节: 2.3.1 Packet Identifier
	// 位置: 可变报头唯一字段
	// 要求: 必须包含，范围1-65535
	PacketID uint16 `json:"PacketID,omitempty"`
}

func (pkt *PUBCOMP) Kind() byte {
	return 0x7
}

func (pkt *PUBCOMP) Pack(w io.Writer) error {
	pkt.Dup = 0
	pkt.QoS = 0
	pkt.Retain = 0

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

func (pkt *PUBCOMP) Unpack(buf *bytes.Buffer) error {
	pkt.PacketID = binary.BigEndian.Uint16(buf.Next(2))
	return nil
}
