package snpacket

import "bytes"

// WILLTOPICREQ gateway request for the client's will topic. No body.
type WILLTOPICREQ struct{}

func (pkt *WILLTOPICREQ) Kind() byte                   { return 0x06 }
func (pkt *WILLTOPICREQ) Pack(buf *bytes.Buffer) error { return nil }
func (pkt *WILLTOPICREQ) Unpack(body []byte) error {
	if len(body) != 0 {
		return ProtocolError
	}
	return nil
}
func (pkt *WILLTOPICREQ) String() string { return "[0x06]WILLTOPICREQ" }
