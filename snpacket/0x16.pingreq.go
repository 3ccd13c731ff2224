package snpacket

import (
	"bytes"
	"fmt"
)

// PINGREQ keep-alive probe. Body: ClientId(0-23 bytes, unprefixed), present
// only when sent by a sleeping client waking the gateway.
type PINGREQ struct {
	ClientId string
}

func (pkt *PINGREQ) Kind() byte { return 0x16 }

func (pkt *PINGREQ) Pack(buf *bytes.Buffer) error {
	buf.WriteString(pkt.ClientId)
	return nil
}

func (pkt *PINGREQ) Unpack(body []byte) error {
	pkt.ClientId = string(body)
	return nil
}

func (pkt *PINGREQ) String() string {
	return fmt.Sprintf("[0x16]PINGREQ clientId=%s", pkt.ClientId)
}
