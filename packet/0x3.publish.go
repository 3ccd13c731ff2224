package packet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// PUBLISH 发布消息报文
//
// 参考章节: 3.3 PUBLISH - Publish message
//
// PUBLISH控制包用于在客户端和服务器之间传输应用消息。客户端使用PUBLISH包向服务器发送
// 应用消息，服务器使用PUBLISH包向匹配订阅的客户端发送应用消息。
//
// 报文结构:
// 固定报头: 报文类型0x03，标志位包含DUP、QoS、RETAIN
// 可变报头: 主题名、报文标识符(QoS>0时)
// 载荷: 应用消息内容
//
// 标志位规则:
// - DUP: 只有QoS > 0的报文才能设置，表示重复发送
// - QoS: 0(最多一次)、1(至少一次)、2(恰好一次)
// - RETAIN: 表示消息是否应该被服务端保留
//
// 响应要求 [MQTT-3.3.4-1]:
// QoS 0 无响应, QoS 1 PUBACK, QoS 2 PUBREC
type PUBLISH struct {
	*FixedHeader `json:"FixedHeader,omitempty"`

	// PacketID 报文标识符
	// 参考章节: 2.3.1 Packet Identifier
	// 位置: 可变报头，在主题名之后(QoS > 0时)
	// 要求:
	// - QoS = 0: 不能包含报文标识符 [MQTT-2.3.1-5]
	// - QoS > 0: 必须包含报文标识符，范围1-65535
	PacketID uint16 `json:"PacketID,omitempty"`

	Message *Message `json:"message,omitempty"`
}

func (pkt *PUBLISH) Kind() byte {
	return 0x3
}

func (pkt *PUBLISH) Pack(w io.Writer) error {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if pkt.FixedHeader == nil {
		return fmt.Errorf("FixedHeader is nil")
	}

	// 根据协议 [MQTT-3.3.1-4]: PUBLISH包不能同时将两个QoS位设置为1
	if pkt.FixedHeader.QoS == 3 {
		return fmt.Errorf("invalid QoS value: %d, QoS bits 11 (0b11) are reserved and must not be used [MQTT-3.3.1-4]", pkt.FixedHeader.QoS)
	}

	if pkt.Message.TopicName == "" {
		return fmt.Errorf("topic name cannot be empty [MQTT-3.3.2-1]")
	}

	if strings.Contains(pkt.Message.TopicName, "+") || strings.Contains(pkt.Message.TopicName, "#") {
		return fmt.Errorf("topic name cannot contain wildcard characters [MQTT-3.3.2-2]")
	}

	if strings.Contains(pkt.Message.TopicName, " ") {
		return fmt.Errorf("topic name cannot contain space characters")
	}

	buf.Write(s2b(pkt.Message.TopicName))
	// QoS 设置为 0 的 Publish 报文不能包含报文标识符 [MQTT-2.3.1-5]
	if pkt.FixedHeader.QoS > 0 {
		if pkt.PacketID == 0 {
			return fmt.Errorf("packet identifier must be greater than 0 for QoS > 0 [MQTT-2.3.1-1]")
		}
		buf.Write(i2b(pkt.PacketID))
	}

	if _, err := buf.Write(pkt.Message.Content); err != nil {
		return err
	}
	pkt.FixedHeader.RemainingLength = uint32(buf.Len())

	if err := pkt.FixedHeader.Pack(w); err != nil {
		return err
	}

	_, err := buf.WriteTo(w)
	return err
}

func (pkt *PUBLISH) Unpack(buf *bytes.Buffer) error {
	topicLength := int(binary.BigEndian.Uint16(buf.Next(2)))

	if topicLength == 0 {
		return fmt.Errorf("topic name cannot be empty [MQTT-3.3.2-1]")
	}

	pkt.Message = &Message{TopicName: string(buf.Next(topicLength))}
	// 验证主题名不能包含通配符 [MQTT-3.3.2-2]
	if strings.Contains(pkt.Message.TopicName, "+") || strings.Contains(pkt.Message.TopicName, "#") {
		return fmt.Errorf("topic name cannot contain wildcard characters [MQTT-3.3.2-2]")
	}

	if strings.Contains(pkt.Message.TopicName, " ") {
		return fmt.Errorf("topic name cannot contain space characters")
	}
	// QoS > 0 的 Publish 报文必须包含报文标识符 [MQTT-2.3.1-5]
	if pkt.FixedHeader.QoS > 0 {
		if buf.Len() < 2 {
			return fmt.Errorf("insufficient data for packet identifier")
		}
		pkt.PacketID = binary.BigEndian.Uint16(buf.Next(2))

		if pkt.PacketID == 0 {
			return fmt.Errorf("packet identifier must be greater than 0 for QoS > 0 [MQTT-2.3.1-1]")
		}
	}

	// 深度拷贝，避免与缓冲区底层数组共享内存
	pkt.Message.Content = append([]byte{}, buf.Bytes()...)
	return nil
}

// Message 发布消息内容
// 参考章节: 3.3.3 PUBLISH Payload
type Message struct {
	// TopicName 主题名
	// 参考章节: 3.3.2.1 Topic Name
	// 要求: UTF-8编码字符串，不能为空，不能包含通配符或空格字符
	TopicName string

	// Content 消息内容
	// 参考章节: 3.3.3 PUBLISH Payload
	// 注意: 包含零长度有效载荷的Publish报文是合法的
	Content []byte
}

func (m *Message) String() string {
	return fmt.Sprintf("%s # %s", m.TopicName, m.Content)
}
