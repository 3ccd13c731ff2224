package snpacket

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ADVERTISE periodic gateway beacon. Body: GwId(1), Duration(2).
type ADVERTISE struct {
	GwId     uint8
	Duration uint16
}

func (pkt *ADVERTISE) Kind() byte { return 0x00 }

func (pkt *ADVERTISE) Pack(buf *bytes.Buffer) error {
	buf.WriteByte(pkt.GwId)
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], pkt.Duration)
	buf.Write(b[:])
	return nil
}

func (pkt *ADVERTISE) Unpack(body []byte) error {
	if len(body) != 3 {
		return ProtocolError
	}
	pkt.GwId = body[0]
	pkt.Duration = binary.BigEndian.Uint16(body[1:3])
	return nil
}

func (pkt *ADVERTISE) String() string {
	return fmt.Sprintf("[0x00]ADVERTISE gwId=%d duration=%d", pkt.GwId, pkt.Duration)
}
