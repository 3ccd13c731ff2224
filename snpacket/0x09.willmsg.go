package snpacket

import (
	"bytes"
	"fmt"
)

// WILLMSG client's will message. Body: WillMsg(rest, unprefixed bytes).
type WILLMSG struct {
	WillMsg []byte
}

func (pkt *WILLMSG) Kind() byte { return 0x09 }

func (pkt *WILLMSG) Pack(buf *bytes.Buffer) error {
	buf.Write(pkt.WillMsg)
	return nil
}

func (pkt *WILLMSG) Unpack(body []byte) error {
	pkt.WillMsg = append([]byte{}, body...)
	return nil
}

func (pkt *WILLMSG) String() string {
	return fmt.Sprintf("[0x09]WILLMSG len=%d", len(pkt.WillMsg))
}
