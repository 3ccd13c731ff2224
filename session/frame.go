package session

import (
	"bytes"
	"errors"
	"io"

	"github.com/golang-io/mqttsn-gateway/packet"
)

// peekMQTTFrame reports how many bytes of buf a complete MQTT v3.1.1
// control packet would occupy, without consuming anything. It returns
// (0, false, nil) when buf doesn't yet hold a full frame.
//
// packet.Unpack consumes from an io.Reader as it parses, which makes it
// awkward to feed directly with a partially-arrived TCP stream; decoding
// the fixed header first against a throwaway reader lets us compute the
// frame boundary before committing to packet.Unpack on an exact slice.
func peekMQTTFrame(buf *bytes.Buffer, version byte) (total int, complete bool, err error) {
	raw := buf.Bytes()
	r := bytes.NewReader(raw)
	fixed := &packet.FixedHeader{Version: version}
	if unpackErr := fixed.Unpack(r); unpackErr != nil {
		if errors.Is(unpackErr, io.EOF) || errors.Is(unpackErr, io.ErrUnexpectedEOF) {
			return 0, false, nil
		}
		return 0, false, unpackErr
	}
	headerLen := len(raw) - r.Len()
	total = headerLen + int(fixed.RemainingLength)
	if len(raw) < total {
		return 0, false, nil
	}
	return total, true, nil
}
