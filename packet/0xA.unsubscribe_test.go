package packet

import (
	"bytes"
	"testing"
)

// TestUNSUBSCRIBE_Kind 测试UNSUBSCRIBE报文的类型标识符
// 参考章节 3.10 UNSUBSCRIBE - Unsubscribe from topics
func TestUNSUBSCRIBE_Kind(t *testing.T) {
	unsub := &UNSUBSCRIBE{FixedHeader: &FixedHeader{Kind: 0x0A}}
	if unsub.Kind() != 0x0A {
		t.Errorf("UNSUBSCRIBE.Kind() = %d, want 0x0A", unsub.Kind())
	}
}

// TestUNSUBSCRIBE_PackUnpack 测试UNSUBSCRIBE报文的序列化与反序列化
func TestUNSUBSCRIBE_PackUnpack(t *testing.T) {
	unsub := &UNSUBSCRIBE{
		FixedHeader: &FixedHeader{Version: VERSION311, Kind: 0x0A, QoS: 1},
		PacketID:    9,
		Subscriptions: []Subscription{
			{TopicFilter: "a/b"},
			{TopicFilter: "c/d/e"},
		},
	}

	var buf bytes.Buffer
	if err := unsub.Pack(&buf); err != nil {
		t.Fatalf("Pack() failed: %v", err)
	}

	data := buf.Bytes()
	fh := &FixedHeader{}
	r := bytes.NewBuffer(data)
	if err := fh.Unpack(r); err != nil {
		t.Fatalf("FixedHeader.Unpack() failed: %v", err)
	}
	got := &UNSUBSCRIBE{FixedHeader: fh}
	if err := got.Unpack(r); err != nil {
		t.Fatalf("Unpack() failed: %v", err)
	}
	if got.PacketID != 9 {
		t.Errorf("PacketID = %d, want 9", got.PacketID)
	}
	if len(got.Subscriptions) != 2 || got.Subscriptions[0].TopicFilter != "a/b" || got.Subscriptions[1].TopicFilter != "c/d/e" {
		t.Errorf("Subscriptions = %+v", got.Subscriptions)
	}
}

// TestUNSUBSCRIBE_NoTopics 测试不含主题过滤器时Pack()应报错
func TestUNSUBSCRIBE_NoTopics(t *testing.T) {
	unsub := &UNSUBSCRIBE{
		FixedHeader: &FixedHeader{Version: VERSION311, Kind: 0x0A, QoS: 1},
		PacketID:    1,
	}
	var buf bytes.Buffer
	if err := unsub.Pack(&buf); err != ErrMalformedTopic {
		t.Errorf("Pack() err = %v, want ErrMalformedTopic", err)
	}
}

// TestUNSUBSCRIBE_TruncatedPacketID 测试数据不足报文标识符时报错
func TestUNSUBSCRIBE_TruncatedPacketID(t *testing.T) {
	unsub := &UNSUBSCRIBE{FixedHeader: &FixedHeader{Version: VERSION311, Kind: 0x0A}}
	if err := unsub.Unpack(bytes.NewBuffer([]byte{0x01})); err != ErrMalformedPacketID {
		t.Errorf("Unpack() err = %v, want ErrMalformedPacketID", err)
	}
}
