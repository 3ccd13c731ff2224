package snpacket

import (
	"bytes"
	"fmt"
)

// WILLTOPICRESP acknowledges a WILLTOPICUPD. Body: ReturnCode(1).
type WILLTOPICRESP struct {
	ReturnCode ReturnCode
}

func (pkt *WILLTOPICRESP) Kind() byte { return 0x1A }

func (pkt *WILLTOPICRESP) Pack(buf *bytes.Buffer) error {
	buf.WriteByte(byte(pkt.ReturnCode))
	return nil
}

func (pkt *WILLTOPICRESP) Unpack(body []byte) error {
	if len(body) != 1 {
		return ProtocolError
	}
	pkt.ReturnCode = ReturnCode(body[0])
	return nil
}

func (pkt *WILLTOPICRESP) String() string {
	return fmt.Sprintf("[0x1A]WILLTOPICRESP %s", pkt.ReturnCode)
}
