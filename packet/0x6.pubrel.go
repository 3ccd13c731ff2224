package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// PUBREL 发布释放报文 (QoS 2第二步)
//
// 参考章节: 3.6 PUBREL - Publish release (QoS 2 publish received, part 2)
//
// 报文结构:
// 固定报头: 报文类型0x06，标志位必须为DUP=0, QoS=1, RETAIN=0
// 可变报头: 报文标识符
// 载荷: 无载荷
//
// QoS 2流程:
// 1. 客户端发送PUBLISH (QoS=2)
// 2. 服务端响应PUBREC
// 3. 客户端发送PUBREL ← 当前报文
// 4. 服务端响应PUBCOMP
//
// 标志位规则:
// - DUP: 必须为0 [MQTT-3.6.1-1]
// - QoS: 必须为1 [MQTT-3.6.1-1]
// - RETAIN: 必须为0 [MQTT-3.6.1-1]
type PUBREL struct {
	*FixedHeader `json:"FixedHeader,omitempty"`

	// PacketID 报文标识符
	// 参考章节: 2.3.1 Packet Identifier
	// 位置: 可变报头唯一字段
	// 要求: 必须包含，范围1-65535
	// 用途: 用于标识对应的PUBLISH报文，确保QoS 2流程的可靠性
	PacketID uint16 `json:"PacketID,omitempty"`
}

func (pkt *PUBREL) Kind() byte {
	return 0x6
}

func (pkt *PUBREL) Pack(w io.Writer) error {
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

func (pkt *PUBREL) Unpack(buf *bytes.Buffer) error {
	pkt.PacketID = binary.BigEndian.Uint16(buf.Next(2))
	return nil
}
