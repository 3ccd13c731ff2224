package snpacket

import (
	"bytes"
	"fmt"
)

// SEARCHGW broadcast by a client looking for a gateway. Body: Radius(1).
type SEARCHGW struct {
	Radius uint8
}

func (pkt *SEARCHGW) Kind() byte { return 0x01 }

func (pkt *SEARCHGW) Pack(buf *bytes.Buffer) error {
	buf.WriteByte(pkt.Radius)
	return nil
}

func (pkt *SEARCHGW) Unpack(body []byte) error {
	if len(body) != 1 {
		return ProtocolError
	}
	pkt.Radius = body[0]
	return nil
}

func (pkt *SEARCHGW) String() string {
	return fmt.Sprintf("[0x01]SEARCHGW radius=%d", pkt.Radius)
}
