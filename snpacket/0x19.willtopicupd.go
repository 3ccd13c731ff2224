package snpacket

import (
	"bytes"
	"fmt"
)

// WILLTOPICUPD updates the will topic of an already-connected client.
// Body: Flags(1), WillTopic(rest). An empty body deletes the will.
type WILLTOPICUPD struct {
	Flags     Flags
	WillTopic string
}

func (pkt *WILLTOPICUPD) Kind() byte { return 0x19 }

func (pkt *WILLTOPICUPD) Pack(buf *bytes.Buffer) error {
	if pkt.WillTopic == "" {
		return nil
	}
	buf.WriteByte(byte(pkt.Flags))
	buf.WriteString(pkt.WillTopic)
	return nil
}

func (pkt *WILLTOPICUPD) Unpack(body []byte) error {
	if len(body) == 0 {
		pkt.Flags, pkt.WillTopic = 0, ""
		return nil
	}
	pkt.Flags = Flags(body[0])
	pkt.WillTopic = string(body[1:])
	return nil
}

func (pkt *WILLTOPICUPD) String() string {
	return fmt.Sprintf("[0x19]WILLTOPICUPD topic=%s qos=%d retain=%v", pkt.WillTopic, pkt.Flags.QoS(), pkt.Flags.Retain())
}
