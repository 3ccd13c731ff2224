package packet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// SUBSCRIBE 订阅请求报文
//
// 参考章节: 3.8 SUBSCRIBE - Subscribe to topics
//
// 报文结构:
// 固定报头: 报文类型0x08，标志位必须为DUP=0, QoS=1, RETAIN=0
// 可变报头: 报文标识符
// 载荷: 订阅列表，每个订阅包含主题过滤器和请求的QoS
//
// 标志位规则:
// - DUP: 必须为0 [MQTT-3.8.1-1]
// - QoS: 必须为1 [MQTT-3.8.1-1]
// - RETAIN: 必须为0 [MQTT-3.8.1-1]
type SUBSCRIBE struct {
	*FixedHeader `json:"FixedHeader,omitempty"`

	// PacketID 报文标识符
	// 参考章节: 2.3.1 Packet Identifier
	// 位置: 可变报头唯一字段
	// 要求: 必须包含，范围1-65535
	PacketID uint16 `json:"PacketID,omitempty"`

	// Subscriptions 订阅列表
	// 参考章节: 3.8.3 SUBSCRIBE Payload
	// 要求: 至少包含一个订阅 [MQTT-3.8.3-1]
	Subscriptions []Subscription `json:"Subscription,omitempty"`
}

func (pkt *SUBSCRIBE) Kind() byte {
	return 0x8
}

func (pkt *SUBSCRIBE) Pack(w io.Writer) error {
	buf := GetBuffer()
	defer PutBuffer(buf)
	buf.Write(i2b(pkt.PacketID))

	for _, subscription := range pkt.Subscriptions {
		if subscription.TopicFilter == "" {
			return ErrProtocolViolationNoTopic
		}
		buf.Write(s2b(subscription.TopicFilter))
		buf.WriteByte(subscription.MaximumQoS)
	}
	pkt.FixedHeader.RemainingLength = uint32(buf.Len())
	if err := pkt.FixedHeader.Pack(w); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func (pkt *SUBSCRIBE) Unpack(buf *bytes.Buffer) error {
	// SUBSCRIBE 控制报固定报头的第 3,2,1,0 位是保留位，必须分别设置为 0,0,1,0。
	// 服务端必须将其它的任何值都当做是不合法的并关闭网络连接 [MQTT-3.8.1-1]。
	if pkt.Dup != 0x0 || pkt.QoS != 0x1 || pkt.Retain != 0x0 {
		return ErrMalformedFlags
	}
	pkt.PacketID = binary.BigEndian.Uint16(buf.Next(2))
	for buf.Len() != 0 {
		subscription := Subscription{}
		subscription.TopicFilter, _ = decodeUTF8[string](buf)
		options := buf.Next(1)[0]
		subscription.MaximumQoS = options & 0b00000011
		if subscription.MaximumQoS > 0x02 {
			return ErrProtocolViolationQosOutOfRange
		}
		pkt.Subscriptions = append(pkt.Subscriptions, subscription)
	}
	if len(pkt.Subscriptions) == 0 {
		return ErrProtocolViolationNoTopic
	}
	return nil
}

// Subscription 订阅项
// 参考章节: 3.8.3 SUBSCRIBE Payload
type Subscription struct {
	// TopicFilter 主题过滤器
	// 参考章节: 3.8.3.1 Topic Filter
	// 通配符:
	// - +: 单层通配符，匹配任意一个层级
	// - #: 多层通配符，匹配任意数量的层级
	TopicFilter string

	// MaximumQoS 请求的QoS等级
	// 参考章节: 3.8.3.1 Subscription Options
	// 值: 0x00/0x01/0x02 (0x03为保留值，不允许使用)
	MaximumQoS uint8
}

func (s *Subscription) String() string {
	return fmt.Sprintf("%s@%d", s.TopicFilter, s.MaximumQoS)
}
