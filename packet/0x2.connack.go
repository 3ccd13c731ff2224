package packet

import (
	"bytes"
	"fmt"
	"io"
)

// CONNACK 连接确认报文
//
// 参考章节: 3.2 CONNACK - Acknowledge connection request
//
// 报文结构:
// 固定报头: 报文类型0x02，标志位必须为0
// 可变报头: 连接确认标志、连接返回码
// 载荷: 无载荷
type CONNACK struct {
	*FixedHeader

	// SessionPresent 会话存在标志
	// 位置: 可变报头第1字节的bit 0
	// 参考章节: 3.2.2.1 Session Present
	// 值:
	// - 0: 服务端没有客户端的会话状态
	// - 1: 服务端有客户端的会话状态
	// 注意:
	// - 只有在CleanSession=0时才有意义
	// - bits 7-6为保留位，必须为0
	SessionPresent uint8

	// ConnectReturnCode 连接返回码
	// 位置: 可变报头第2字节
	// 参考章节: 3.2.2.2 Connect Return code
	// 值:
	// - 0x00: 连接已接受
	// - 0x01: 连接已拒绝，不支持的协议版本
	// - 0x02: 连接已拒绝，不合格的客户端标识符
	// - 0x03: 连接已拒绝，服务端不可用
	// - 0x04: 连接已拒绝，无效的用户名或密码
	// - 0x05: 连接已拒绝，未授权
	// 注意:
	// - 如果服务端发送了一个包含非零返回码的CONNACK报文，那么它必须关闭网络连接 [MQTT-3.2.2-5]
	ConnectReturnCode ReasonCode `json:"ConnectReturnCode,omitempty"`
}

func (pkt *CONNACK) Kind() byte {
	return 0x2
}

func (pkt *CONNACK) String() string {
	return fmt.Sprintf("[0x2]ConnectReturnCode=%d", pkt.ConnectReturnCode.Code)
}

// Pack 将CONNACK报文序列化到写入器
// 参考章节: 3.2 CONNACK - Acknowledge connection request
func (pkt *CONNACK) Pack(w io.Writer) error {
	buf := GetBuffer()
	defer PutBuffer(buf)

	buf.WriteByte(pkt.SessionPresent)
	buf.WriteByte(pkt.ConnectReturnCode.Code)

	pkt.FixedHeader.RemainingLength = uint32(buf.Len())

	if err := pkt.FixedHeader.Pack(w); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// Unpack 从缓冲区解析CONNACK报文
func (pkt *CONNACK) Unpack(buf *bytes.Buffer) error {
	pkt.SessionPresent = buf.Next(1)[0]
	pkt.ConnectReturnCode = ReasonCode{Code: buf.Next(1)[0]}
	return nil
}
