package packet

import (
	"bytes"
	"testing"
)

// TestPUBREC_Kind 测试PUBREC报文的类型标识符
// 参考章节 3.5 PUBREC - Publish received (QoS 2 publish received, part 1)
func TestPUBREC_Kind(t *testing.T) {
	pubrec := &PUBREC{FixedHeader: &FixedHeader{Kind: 0x05}}
	if pubrec.Kind() != 0x05 {
		t.Errorf("PUBREC.Kind() = %d, want 0x05", pubrec.Kind())
	}
}

// TestPUBREC_Pack 测试PUBREC报文的序列化
func TestPUBREC_Pack(t *testing.T) {
	pubrec := &PUBREC{
		FixedHeader: &FixedHeader{
			Version: VERSION311,
			Kind:    0x05,
			Dup:     0,
			QoS:     0,
			Retain:  0,
		},
		PacketID: 12345,
	}

	var buf bytes.Buffer
	if err := pubrec.Pack(&buf); err != nil {
		t.Fatalf("Pack() failed: %v", err)
	}

	result := buf.Bytes()
	if len(result) != 4 {
		t.Fatalf("result length = %d, want 4", len(result))
	}
	if result[0] != 0x50 {
		t.Errorf("packet type = %02x, want 0x50", result[0])
	}
	if result[2] != 0x30 || result[3] != 0x39 {
		t.Errorf("packet ID = %02x%02x, want 0x3039", result[2], result[3])
	}
}

// TestPUBREC_Unpack 测试PUBREC报文的反序列化
func TestPUBREC_Unpack(t *testing.T) {
	data := []byte{
		0x50, 0x02, // 固定报头: PUBREC, 标志位0, 剩余长度2
		0x30, 0x39, // 报文标识符: 12345
	}

	fixedHeader := &FixedHeader{}
	buf := bytes.NewBuffer(data)
	if err := fixedHeader.Unpack(buf); err != nil {
		t.Fatalf("FixedHeader.Unpack() failed: %v", err)
	}

	pubrec := &PUBREC{FixedHeader: fixedHeader}
	if err := pubrec.Unpack(buf); err != nil {
		t.Fatalf("Unpack() failed: %v", err)
	}
	if pubrec.PacketID != 12345 {
		t.Errorf("PacketID = %d, want 12345", pubrec.PacketID)
	}
}

// TestPUBREC_ProtocolCompliance 测试PUBREC报文的协议合规性
func TestPUBREC_ProtocolCompliance(t *testing.T) {
	pubrec := &PUBREC{
		FixedHeader: &FixedHeader{
			Version: VERSION311,
			Kind:    0x05,
			Dup:     0,
			QoS:     0,
			Retain:  0,
		},
		PacketID: 12345,
	}

	var buf bytes.Buffer
	if err := pubrec.Pack(&buf); err != nil {
		t.Fatalf("Pack() failed: %v", err)
	}
	if buf.Bytes()[0] != 0x50 {
		t.Errorf("flags not properly set: %02x", buf.Bytes()[0])
	}
}

// TestPUBREC_EdgeCases 测试PUBREC报文的边界情况
func TestPUBREC_EdgeCases(t *testing.T) {
	t.Run("PacketIDZero", func(t *testing.T) {
		pubrec := &PUBREC{
			FixedHeader: &FixedHeader{Version: VERSION311, Kind: 0x05},
			PacketID:    0,
		}
		var buf bytes.Buffer
		if err := pubrec.Pack(&buf); err != nil {
			t.Fatalf("Pack() failed: %v", err)
		}
		result := buf.Bytes()
		if result[2] != 0x00 || result[3] != 0x00 {
			t.Errorf("packet ID 0 not properly encoded: %02x%02x", result[2], result[3])
		}
	})

	t.Run("PacketIDMax", func(t *testing.T) {
		pubrec := &PUBREC{
			FixedHeader: &FixedHeader{Version: VERSION311, Kind: 0x05},
			PacketID:    65535,
		}
		var buf bytes.Buffer
		if err := pubrec.Pack(&buf); err != nil {
			t.Fatalf("Pack() failed: %v", err)
		}
		result := buf.Bytes()
		if result[2] != 0xFF || result[3] != 0xFF {
			t.Errorf("packet ID 65535 not properly encoded: %02x%02x", result[2], result[3])
		}
	})
}

// BenchmarkPUBREC_Pack 性能测试
func BenchmarkPUBREC_Pack(b *testing.B) {
	pubrec := &PUBREC{
		FixedHeader: &FixedHeader{Version: VERSION311, Kind: 0x05},
		PacketID:    12345,
	}

	var buf bytes.Buffer
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		pubrec.Pack(&buf)
	}
}

// BenchmarkPUBREC_Unpack 性能测试
func BenchmarkPUBREC_Unpack(b *testing.B) {
	data := []byte{0x30, 0x39}

	pubrec := &PUBREC{
		FixedHeader: &FixedHeader{Version: VERSION311, Kind: 0x05, RemainingLength: 2},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf := bytes.NewBuffer(data)
		pubrec.Unpack(buf)
	}
}
