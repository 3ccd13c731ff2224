package snpacket

import (
	"bytes"
	"fmt"
)

// WILLMSGUPD updates the will message of an already-connected client.
// Body: WillMsg(rest, unprefixed bytes).
type WILLMSGUPD struct {
	WillMsg []byte
}

func (pkt *WILLMSGUPD) Kind() byte { return 0x1B }

func (pkt *WILLMSGUPD) Pack(buf *bytes.Buffer) error {
	buf.Write(pkt.WillMsg)
	return nil
}

func (pkt *WILLMSGUPD) Unpack(body []byte) error {
	pkt.WillMsg = append([]byte{}, body...)
	return nil
}

func (pkt *WILLMSGUPD) String() string {
	return fmt.Sprintf("[0x1B]WILLMSGUPD len=%d", len(pkt.WillMsg))
}
