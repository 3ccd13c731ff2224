package snpacket

import "bytes"

// Message is the common interface implemented by every MQTT-SN message type.
type Message interface {
	Kind() byte
	Pack(buf *bytes.Buffer) error
	Unpack(body []byte) error
}

// Decode reads one complete message from buf, consuming exactly the bytes
// that belonged to it. Returns NotEnoughData (buffer left untouched) when
// the declared length hasn't fully arrived yet.
func Decode(buf *bytes.Buffer) (Message, error) {
	total, headerLen, kind, err := decodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if buf.Len() < total {
		return nil, NotEnoughData
	}
	bodyLen := total - headerLen - 1
	if bodyLen < 0 {
		buf.Next(total)
		return nil, ProtocolError
	}

	buf.Next(headerLen + 1)
	body := buf.Next(bodyLen)

	msg, err := newMessage(kind)
	if err != nil {
		return nil, err
	}
	if err := msg.Unpack(body); err != nil {
		return msg, err
	}
	return msg, nil
}

// Encode serializes msg with its length+type header prepended.
func Encode(msg Message) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	body := GetBuffer()
	defer PutBuffer(body)

	if err := msg.Pack(body); err != nil {
		return nil, err
	}
	if err := encodeHeader(buf, msg.Kind(), body.Len()); err != nil {
		return nil, err
	}
	buf.Write(body.Bytes())

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func newMessage(kind byte) (Message, error) {
	switch kind {
	case 0x00:
		return &ADVERTISE{}, nil
	case 0x01:
		return &SEARCHGW{}, nil
	case 0x02:
		return &GWINFO{}, nil
	case 0x04:
		return &CONNECT{}, nil
	case 0x05:
		return &CONNACK{}, nil
	case 0x06:
		return &WILLTOPICREQ{}, nil
	case 0x07:
		return &WILLTOPIC{}, nil
	case 0x08:
		return &WILLMSGREQ{}, nil
	case 0x09:
		return &WILLMSG{}, nil
	case 0x0A:
		return &REGISTER{}, nil
	case 0x0B:
		return &REGACK{}, nil
	case 0x0C:
		return &PUBLISH{}, nil
	case 0x0D:
		return &PUBACK{}, nil
	case 0x0E:
		return &PUBCOMP{}, nil
	case 0x0F:
		return &PUBREC{}, nil
	case 0x10:
		return &PUBREL{}, nil
	case 0x12:
		return &SUBSCRIBE{}, nil
	case 0x13:
		return &SUBACK{}, nil
	case 0x14:
		return &UNSUBSCRIBE{}, nil
	case 0x15:
		return &UNSUBACK{}, nil
	case 0x16:
		return &PINGREQ{}, nil
	case 0x17:
		return &PINGRESP{}, nil
	case 0x18:
		return &DISCONNECT{}, nil
	case 0x19:
		return &WILLTOPICUPD{}, nil
	case 0x1A:
		return &WILLTOPICRESP{}, nil
	case 0x1B:
		return &WILLMSGUPD{}, nil
	case 0x1C:
		return &WILLMSGRESP{}, nil
	default:
		return nil, ProtocolError
	}
}
