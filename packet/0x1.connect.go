package packet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/golang-io/requests"
)

// NAME 协议名，固定为"MQTT"
// 参考章节: 3.1.2.1 Protocol Name
// 编码: 0x00 0x04 'M' 'Q' 'T' 'T'
var NAME = []byte{0x00, 0x04, 'M', 'Q', 'T', 'T'}

// CONNECT 客户端连接请求报文
//
// 参考章节: 3.1 CONNECT - Client requests a connection to a Server
//
// 报文结构:
// ┌─────────────────┬─────────────────┬─────────────────┐
// │   Fixed Header  │ Variable Header │     Payload     │
// │   (2 bytes)     │   (10+ bytes)   │  (variable)     │
// └─────────────────┴─────────────────┴─────────────────┘
//
// 固定报头: 报文类型0x01，标志位必须为0
// 可变报头: 协议名、协议级别、连接标志、保持连接
// 载荷: 客户端ID、遗嘱信息(可选)、用户名密码(可选)
//
// 协议约束:
// 1. 客户端在一个网络连接上只能发送一次CONNECT包 [MQTT-3.1.0-2]
// 2. 如果WillFlag=0，WillQoS和WillRetain必须为0 [MQTT-3.1.2-11]
// 3. 如果UserNameFlag=0，PasswordFlag必须为0 [MQTT-3.1.2-22]
// 4. Reserved位必须为0 [MQTT-3.1.2-3]
type CONNECT struct {
	*FixedHeader

	// ConnectFlags 连接标志，8位标志字段
	// 参考章节: 3.1.2.2 Connect Flags
	// 位置: 可变报头第7字节
	// 标志位定义:
	// - bit 7: UserNameFlag - 用户名标志
	// - bit 6: PasswordFlag - 密码标志
	// - bit 5: WillRetain - 遗嘱保留标志
	// - bit 4-3: WillQoS - 遗嘱QoS等级
	// - bit 2: WillFlag - 遗嘱标志
	// - bit 1: CleanSession - 清理会话标志
	// - bit 0: Reserved - 保留位，必须为0
	ConnectFlags ConnectFlags

	// KeepAlive 保持连接时间间隔
	// 参考章节: 3.1.2.10 Keep Alive
	// 位置: 可变报头第8-9字节
	// 单位: 秒，范围0-65535，0表示禁用保持连接机制
	KeepAlive uint16

	// 载荷部分
	// 参考章节: 3.1.3 CONNECT Payload

	// ClientID 客户端标识符
	// 参考章节: 3.1.3.1 Client Identifier
	// 要求: UTF-8编码字符串，长度1-23个字符
	// 特殊值: 空字符串表示服务端自动分配客户端ID
	ClientID string `json:"ClientID,omitempty"`

	// WillTopic 遗嘱主题
	// 参考章节: 3.1.3.2 Will Topic
	// 位置: 载荷中，在客户端ID之后(如果WillFlag=1)
	WillTopic string

	// WillPayload 遗嘱载荷
	// 参考章节: 3.1.3.3 Will Message
	WillPayload []byte

	// Username 用户名
	// 参考章节: 3.1.3.4 User Name
	Username string `json:"Username,omitempty"`

	// Password 密码
	// 参考章节: 3.1.3.5 Password
	Password string `json:"Password,omitempty"`
}

func (pkt *CONNECT) Kind() byte {
	return 0x1
}

func (pkt *CONNECT) String() string {
	return "[0x1]CONNECT"
}

// Pack 将CONNECT报文序列化到写入器
// 参考章节: 3.1 CONNECT - Client requests a connection to a Server
func (pkt *CONNECT) Pack(w io.Writer) error {
	buf := GetBuffer()
	defer PutBuffer(buf)

	buf.Write(NAME)
	buf.WriteByte(pkt.FixedHeader.Version)

	// 构建连接标志字节
	// 参考章节: 3.1.2.2 Connect Flags
	uf := s2i(pkt.Username) // UserNameFlag - bit 7
	pf := s2i(pkt.Password) // PasswordFlag - bit 6
	wr := uint8(0)          // WillRetain - bit 5
	wq := uint8(0)          // WillQoS - bits 4-3
	wf := uint8(0)          // WillFlag - bit 2
	cs := uint8(0)          // CleanSession - bit 1
	if pkt.ConnectFlags.CleanStart() {
		cs = 1
	}

	if pkt.WillTopic != "" || pkt.WillPayload != nil {
		wf = 1
		wq = pkt.ConnectFlags.WillQoS()
		if pkt.ConnectFlags.WillRetain() {
			wr = 1
		}
	}

	flag := uf<<7 | pf<<6 | wr<<5 | wq<<3 | wf<<2 | cs<<1
	buf.WriteByte(flag)

	// 参考章节: 3.1.2.10 Keep Alive
	buf.Write(i2b(pkt.KeepAlive))

	// 参考章节: 3.1.3.1 Client Identifier
	if len(pkt.ClientID) > 23 {
		return fmt.Errorf("client ID too long: %d characters, maximum allowed is 23", len(pkt.ClientID))
	}
	buf.Write(s2b(pkt.ClientID))

	if wf == 1 {
		buf.Write(s2b(pkt.WillTopic))
		buf.Write(s2b(pkt.WillPayload))
	}

	if pkt.Username != "" {
		buf.Write(s2b(pkt.Username))
	}

	if pkt.Password != "" {
		buf.Write(s2b(pkt.Password))
	}

	pkt.FixedHeader.RemainingLength = uint32(buf.Len())

	if err := pkt.FixedHeader.Pack(w); err != nil {
		return err
	}

	_, err := buf.WriteTo(w)
	return err
}

func (pkt *CONNECT) Unpack(buf *bytes.Buffer) error {
	// 参考章节: 3.1.2.1 Protocol Name
	name := buf.Next(6)
	if !bytes.Equal(name, NAME) {
		return fmt.Errorf("%w: Len=%d, %v", ErrMalformedProtocolName, pkt.RemainingLength, name)
	}

	// 参考章节: 3.1.2.1 Protocol Level, 3.1.2.2 Connect Flags
	pkt.Version, pkt.ConnectFlags = buf.Next(1)[0], ConnectFlags(buf.Next(1)[0])

	// 服务端必须验证保留位为0，否则断开客户端连接 [MQTT-3.1.2-3]
	if pkt.ConnectFlags.Reserved() != 0 {
		return ErrMalformedPacket
	}

	// 遗嘱QoS值只能是0、1或2 [MQTT-3.1.2-14]
	if pkt.ConnectFlags.WillQoS() > 2 {
		return ErrProtocolViolationQosOutOfRange
	}

	// 如果遗嘱标志为0，遗嘱保留和遗嘱QoS必须为0 [MQTT-3.1.2-11] [MQTT-3.1.2-15]
	if !pkt.ConnectFlags.WillFlag() {
		if pkt.ConnectFlags.WillRetain() || pkt.ConnectFlags.WillQoS() != 0 {
			return ErrProtocolViolation
		}
	}

	pkt.KeepAlive = binary.BigEndian.Uint16(buf.Next(2))

	switch pkt.Version {
	case VERSION311:
	case VERSION310:
		return ErrUnsupportedProtocolVersion
	default:
		return ErrMalformedProtocolVersion
	}

	pkt.ClientID, _ = decodeUTF8[string](buf)
	if pkt.ClientID == "" {
		pkt.ClientID = requests.GenId()
	}

	// 遗嘱标志为1时，载荷中必须包含遗嘱主题和遗嘱消息 [MQTT-3.1.2-9]
	if pkt.ConnectFlags.WillFlag() {
		pkt.WillTopic, _ = decodeUTF8[string](buf)
		pkt.WillPayload, _ = decodeUTF8[[]byte](buf)

		if pkt.WillTopic == "" {
			return ErrProtocolViolation
		}
	}

	// 用户名标志为1时载荷必须包含用户名 [MQTT-3.1.2-19]
	if pkt.ConnectFlags.UserNameFlag() {
		pkt.Username, _ = decodeUTF8[string](buf)
	} else if pkt.ConnectFlags.PasswordFlag() {
		// 用户名标志为0时密码标志必须为0 [MQTT-3.1.2-22]
		return ErrMalformedPassword
	}

	// 密码标志为1时载荷必须包含密码 [MQTT-3.1.2-21]
	if pkt.ConnectFlags.PasswordFlag() {
		pkt.Password, _ = decodeUTF8[string](buf)
	}

	return nil
}

// Will 遗嘱消息，从CONNECT载荷中抽取出的便于会话层使用的形式
type Will struct {
	TopicName string
	Message   []byte
	Retain    uint8 // 保留标志
	QoS       uint8 // 服务质量
}

// ConnectFlags 连接标志，8位标志字段
// 参考章节: 3.1.2.2 Connect Flags
// 位置: 可变报头第7字节
//
// 标志位定义 (从高位到低位):
// ┌─────┬─────┬─────┬─────┬─────┬─────┬─────┬─────┐
// │ bit7│ bit6│ bit5│ bit4│ bit3│ bit2│ bit1│ bit0│
// │User │Pass │Will │Will │Will │Will │Clean│Resv │
// │Name │word │Ret  │QoS  │QoS  │Flag │Sess │     │
// │Flag │Flag │     │MSB  │LSB  │     │     │     │
// └─────┴─────┴─────┴─────┴─────┴─────┴─────┴─────┘
type ConnectFlags uint8

// Reserved 保留位，位置: bit 0
func (f ConnectFlags) Reserved() uint8 {
	return uint8(f) & 0x01
}

// CleanStart 清理会话标志，位置: bit 1
// 参考章节: 3.1.2.4 Clean Session
func (f ConnectFlags) CleanStart() bool {
	return (uint8(f) & 0x02) == 0x02
}

// WillFlag 遗嘱标志，位置: bit 2
// 参考章节: 3.1.2.5 Will Flag
func (f ConnectFlags) WillFlag() bool {
	return (uint8(f) & 0x04) == 0x04
}

// WillQoS 遗嘱QoS等级，位置: bits 4-3
// 参考章节: 3.1.2.6 Will QoS
func (f ConnectFlags) WillQoS() uint8 {
	return (uint8(f) & 0x18) >> 3
}

// WillRetain 遗嘱保留标志，位置: bit 5
// 参考章节: 3.1.2.7 Will Retain
func (f ConnectFlags) WillRetain() bool {
	return (uint8(f) & 0x20) == 0x20
}

// UserNameFlag 用户名标志，位置: bit 7
// 参考章节: 3.1.2.8 User Name Flag
func (f ConnectFlags) UserNameFlag() bool {
	return (uint8(f) & 0x80) == 0x80
}

// PasswordFlag 密码标志，位置: bit 6
// 参考章节: 3.1.2.9 Password Flag
func (f ConnectFlags) PasswordFlag() bool {
	return (uint8(f) & 0x40) == 0x40
}
