package snpacket

import (
	"bytes"
	"fmt"
)

// WILLMSGRESP acknowledges a WILLMSGUPD. Body: ReturnCode(1).
type WILLMSGRESP struct {
	ReturnCode ReturnCode
}

func (pkt *WILLMSGRESP) Kind() byte { return 0x1C }

func (pkt *WILLMSGRESP) Pack(buf *bytes.Buffer) error {
	buf.WriteByte(byte(pkt.ReturnCode))
	return nil
}

func (pkt *WILLMSGRESP) Unpack(body []byte) error {
	if len(body) != 1 {
		return ProtocolError
	}
	pkt.ReturnCode = ReturnCode(body[0])
	return nil
}

func (pkt *WILLMSGRESP) String() string {
	return fmt.Sprintf("[0x1C]WILLMSGRESP %s", pkt.ReturnCode)
}
