package snpacket

import (
	"bytes"
	"fmt"
)

// WILLTOPIC client's will topic. Body: Flags(1), WillTopic(rest). An empty
// body (no Flags, no topic) deletes the will.
type WILLTOPIC struct {
	Flags     Flags
	WillTopic string
}

func (pkt *WILLTOPIC) Kind() byte { return 0x07 }

func (pkt *WILLTOPIC) Pack(buf *bytes.Buffer) error {
	if pkt.WillTopic == "" {
		return nil
	}
	buf.WriteByte(byte(pkt.Flags))
	buf.WriteString(pkt.WillTopic)
	return nil
}

func (pkt *WILLTOPIC) Unpack(body []byte) error {
	if len(body) == 0 {
		pkt.Flags, pkt.WillTopic = 0, ""
		return nil
	}
	pkt.Flags = Flags(body[0])
	pkt.WillTopic = string(body[1:])
	return nil
}

func (pkt *WILLTOPIC) String() string {
	return fmt.Sprintf("[0x07]WILLTOPIC topic=%s qos=%d retain=%v", pkt.WillTopic, pkt.Flags.QoS(), pkt.Flags.Retain())
}
