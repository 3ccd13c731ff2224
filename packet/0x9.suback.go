package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// SUBACK 订阅确认报文
//
// 参考章节: 3.9 SUBACK - Subscribe acknowledgement
//
// 报文结构:
// 固定报头: 报文类型0x09，标志位必须为0
// 可变报头: 报文标识符
// 载荷: 订阅返回码列表，每个返回码对应一个订阅请求
//
// 标志位规则:
// - DUP: 必须为0
// - QoS: 必须为0
// - RETAIN: 必须为0
type SUBACK struct {
	*FixedHeader `json:"FixedHeader,omitempty"`

	// PacketID 报文标识符
	// 参考章节: 2.3.1 Packet Identifier
	// 位置: 可变报头唯一字段
	// 要求: 必须包含，范围1-65535
	PacketID uint16 `json:"PacketID,omitempty"`

	// ReasonCode 返回码列表
	// 参考章节: 3.9.3 SUBACK Payload
	// 要求: 至少包含一个返回码，顺序必须与SUBSCRIBE中的订阅顺序一致
	// 返回码值:
	// - 0x00/0x01/0x02: 订阅成功，对应授予的最大QoS
	// - 0x80: 订阅失败
	ReasonCode []ReasonCode `json:"ReasonCode,omitempty"`
}

func (pkt *SUBACK) Kind() byte {
	return 0x9
}

func (pkt *SUBACK) Pack(w io.Writer) error {
	buf := GetBuffer()
	defer PutBuffer(buf)
	if len(pkt.ReasonCode) == 0 {
		return ErrMalformedReasonCode
	}
	buf.Write(i2b(pkt.PacketID))

	for _, reason := range pkt.ReasonCode {
		buf.WriteByte(reason.Code)
	}
	pkt.FixedHeader.RemainingLength = uint32(buf.Len())
	if err := pkt.FixedHeader.Pack(w); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func (pkt *SUBACK) Unpack(buf *bytes.Buffer) error {
	pkt.PacketID = binary.BigEndian.Uint16(buf.Next(2))

	for buf.Len() != 0 {
		reason := ReasonCode{Code: buf.Next(1)[0]}
		if reason.Code != 0x00 && reason.Code != 0x01 && reason.Code != 0x02 && reason.Code != 0x80 {
			return ErrMalformedReasonCode
		}
		pkt.ReasonCode = append(pkt.ReasonCode, reason)
	}
	return nil
}
