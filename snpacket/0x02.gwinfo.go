package snpacket

import (
	"bytes"
	"fmt"
)

// GWINFO response to SEARCHGW. Body: GwId(1), GwAdd(0+, only present when
// relayed by a client rather than sent directly by the gateway).
type GWINFO struct {
	GwId  uint8
	GwAdd []byte
}

func (pkt *GWINFO) Kind() byte { return 0x02 }

func (pkt *GWINFO) Pack(buf *bytes.Buffer) error {
	buf.WriteByte(pkt.GwId)
	buf.Write(pkt.GwAdd)
	return nil
}

func (pkt *GWINFO) Unpack(body []byte) error {
	if len(body) < 1 {
		return ProtocolError
	}
	pkt.GwId = body[0]
	if len(body) > 1 {
		pkt.GwAdd = append([]byte{}, body[1:]...)
	}
	return nil
}

func (pkt *GWINFO) String() string {
	return fmt.Sprintf("[0x02]GWINFO gwId=%d", pkt.GwId)
}
