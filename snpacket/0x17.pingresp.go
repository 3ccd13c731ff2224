package snpacket

import "bytes"

// PINGRESP keep-alive reply. No body.
type PINGRESP struct{}

func (pkt *PINGRESP) Kind() byte                   { return 0x17 }
func (pkt *PINGRESP) Pack(buf *bytes.Buffer) error { return nil }
func (pkt *PINGRESP) Unpack(body []byte) error {
	if len(body) != 0 {
		return ProtocolError
	}
	return nil
}
func (pkt *PINGRESP) String() string { return "[0x17]PINGRESP" }
