package snpacket

import (
	"bytes"
	"fmt"
)

// CONNACK response to CONNECT. Body: ReturnCode(1).
type CONNACK struct {
	ReturnCode ReturnCode
}

func (pkt *CONNACK) Kind() byte { return 0x05 }

func (pkt *CONNACK) Pack(buf *bytes.Buffer) error {
	buf.WriteByte(byte(pkt.ReturnCode))
	return nil
}

func (pkt *CONNACK) Unpack(body []byte) error {
	if len(body) != 1 {
		return ProtocolError
	}
	pkt.ReturnCode = ReturnCode(body[0])
	return nil
}

func (pkt *CONNACK) String() string {
	return fmt.Sprintf("[0x05]CONNACK %s", pkt.ReturnCode)
}
