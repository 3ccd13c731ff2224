package snpacket

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// DISCONNECT terminates a connection, or (with Duration set) puts a client to
// sleep for that many seconds. Body: Duration(0 or 2 bytes).
type DISCONNECT struct {
	Duration    uint16
	HasDuration bool
}

func (pkt *DISCONNECT) Kind() byte { return 0x18 }

func (pkt *DISCONNECT) Pack(buf *bytes.Buffer) error {
	if !pkt.HasDuration {
		return nil
	}
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], pkt.Duration)
	buf.Write(b[:])
	return nil
}

func (pkt *DISCONNECT) Unpack(body []byte) error {
	switch len(body) {
	case 0:
		pkt.HasDuration = false
		pkt.Duration = 0
	case 2:
		pkt.HasDuration = true
		pkt.Duration = binary.BigEndian.Uint16(body)
	default:
		return ProtocolError
	}
	return nil
}

func (pkt *DISCONNECT) String() string {
	if !pkt.HasDuration {
		return "[0x18]DISCONNECT"
	}
	return fmt.Sprintf("[0x18]DISCONNECT sleep=%ds", pkt.Duration)
}
