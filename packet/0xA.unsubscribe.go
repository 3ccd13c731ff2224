package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// UNSUBSCRIBE 取消订阅请求报文
//
// 参考章节: 3.10 UNSUBSCRIBE - Unsubscribe from topics
//
// 报文结构:
// 固定报头: 报文类型0x0A，标志位必须为DUP=0, QoS=1, RETAIN=0
// 可变报头: 报文标识符
// 载荷: 主题过滤器列表，每个主题过滤器对应一个要取消的订阅
//
// 标志位规则:
// - DUP: 必须为0
// - QoS: 必须为1
// - RETAIN: 必须为0
type UNSUBSCRIBE struct {
	*FixedHeader

	// PacketID 报文标识符
	// 参考章节: 2.3.1 Packet Identifier
	// 位置: 可变报头唯一字段
	// 要求: 必须包含，范围1-65535
	PacketID uint16

	// Subscriptions 主题过滤器列表
	// 参考章节: 3.10.3 UNSUBSCRIBE Payload
	// 要求: 至少包含一个主题过滤器
	// 注意: 主题过滤器必须与之前SUBSCRIBE报文中的完全匹配
	Subscriptions []Subscription
}

func (pkt *UNSUBSCRIBE) Kind() byte {
	return 0xA
}

func (pkt *UNSUBSCRIBE) Pack(w io.Writer) error {
	if len(pkt.Subscriptions) == 0 {
		return ErrMalformedTopic
	}

	buf := GetBuffer()
	defer PutBuffer(buf)
	buf.Write(i2b(pkt.PacketID))

	for _, subscription := range pkt.Subscriptions {
		buf.Write(s2b(subscription.TopicFilter))
	}

	pkt.FixedHeader.RemainingLength = uint32(buf.Len())

	if err := pkt.FixedHeader.Pack(w); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func (pkt *UNSUBSCRIBE) Unpack(buf *bytes.Buffer) error {
	if buf.Len() < 2 {
		return ErrMalformedPacketID
	}

	pkt.PacketID = binary.BigEndian.Uint16(buf.Next(2))

	for buf.Len() != 0 {
		topicLength := int(binary.BigEndian.Uint16(buf.Next(2)))
		subscription := Subscription{TopicFilter: string(buf.Next(topicLength))}
		pkt.Subscriptions = append(pkt.Subscriptions, subscription)
	}

	if len(pkt.Subscriptions) == 0 {
		return ErrMalformedTopic
	}

	return nil
}
