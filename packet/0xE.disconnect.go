package packet

import (
	"bytes"
	"io"
)

// DISCONNECT 断开连接报文
//
// 参考章节: 3.14 DISCONNECT - Disconnect notification
//
// 报文结构:
// 固定报头: 报文类型0x0E，标志位必须为0
// 可变报头: 无
// 载荷: 无载荷
//
// 标志位规则:
// - DUP: 必须为0 [MQTT-3.14.1-1]
// - QoS: 必须为0 [MQTT-3.14.1-1]
// - RETAIN: 必须为0 [MQTT-3.14.1-1]
//
// 用途:
// - 客户端发送DISCONNECT通知服务端它将要断开连接
// - 这是客户端期望的干净断开连接，服务端不应触发遗嘱消息的发布
type DISCONNECT struct {
	*FixedHeader `json:"FixedHeader,omitempty"`
}

// NewDISCONNECT 创建新的DISCONNECT包
func NewDISCONNECT(version byte) *DISCONNECT {
	return &DISCONNECT{
		FixedHeader: &FixedHeader{
			Kind:    0x0E,
			Version: version,
		},
	}
}

func (pkt *DISCONNECT) Kind() byte {
	return 0xE
}

func (pkt *DISCONNECT) Pack(w io.Writer) error {
	return pkt.FixedHeader.Pack(w)
}

func (pkt *DISCONNECT) Unpack(_ *bytes.Buffer) error {
	return nil
}

func (pkt *DISCONNECT) String() string {
	if pkt == nil {
		return "DISCONNECT<nil>"
	}
	return "DISCONNECT{}"
}
