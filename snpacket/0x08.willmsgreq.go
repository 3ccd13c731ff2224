package snpacket

import "bytes"

// WILLMSGREQ gateway request for the client's will message. No body.
type WILLMSGREQ struct{}

func (pkt *WILLMSGREQ) Kind() byte                   { return 0x08 }
func (pkt *WILLMSGREQ) Pack(buf *bytes.Buffer) error { return nil }
func (pkt *WILLMSGREQ) Unpack(body []byte) error {
	if len(body) != 0 {
		return ProtocolError
	}
	return nil
}
func (pkt *WILLMSGREQ) String() string { return "[0x08]WILLMSGREQ" }
