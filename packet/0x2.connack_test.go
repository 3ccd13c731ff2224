package packet

import (
	"bytes"
	"testing"
)

// TestCONNACK_Kind 测试CONNACK报文的类型标识符
// 参考章节 3.2 CONNACK - Acknowledge connection request
func TestCONNACK_Kind(t *testing.T) {
	connack := &CONNACK{FixedHeader: &FixedHeader{Kind: 0x02}}
	if connack.Kind() != 0x02 {
		t.Errorf("CONNACK.Kind() = %d, want 0x02", connack.Kind())
	}
}

// TestCONNACK_String 测试CONNACK报文的字符串表示
func TestCONNACK_String(t *testing.T) {
	testCases := []struct {
		name     string
		connack  *CONNACK
		expected string
	}{
		{
			name: "Accepted",
			connack: &CONNACK{
				FixedHeader:       &FixedHeader{Kind: 0x02},
				ConnectReturnCode: ReasonCode{Code: 0x00},
			},
			expected: "[0x2]ConnectReturnCode=0",
		},
		{
			name: "Refused",
			connack: &CONNACK{
				FixedHeader:       &FixedHeader{Kind: 0x02},
				ConnectReturnCode: ReasonCode{Code: 0x05},
			},
			expected: "[0x2]ConnectReturnCode=5",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.connack.String()
			if result != tc.expected {
				t.Errorf("String() = %s, want %s", result, tc.expected)
			}
		})
	}
}

// TestCONNACK_Pack 测试CONNACK报文的序列化
// 参考章节 3.2.2 CONNACK Variable Header
func TestCONNACK_Pack(t *testing.T) {
	testCases := []struct {
		name     string
		connack  *CONNACK
		expected []byte
	}{
		{
			name: "Accepted",
			connack: &CONNACK{
				FixedHeader:       &FixedHeader{Kind: 0x02, Version: VERSION311},
				SessionPresent:    0,
				ConnectReturnCode: ReasonCode{Code: 0x00},
			},
			expected: []byte{0x20, 0x02, 0x00, 0x00},
		},
		{
			name: "RefusedBadProtocol",
			connack: &CONNACK{
				FixedHeader:       &FixedHeader{Kind: 0x02, Version: VERSION311},
				SessionPresent:    0,
				ConnectReturnCode: ReasonCode{Code: 0x01},
			},
			expected: []byte{0x20, 0x02, 0x00, 0x01},
		},
		{
			name: "SessionPresent",
			connack: &CONNACK{
				FixedHeader:       &FixedHeader{Kind: 0x02, Version: VERSION311},
				SessionPresent:    1,
				ConnectReturnCode: ReasonCode{Code: 0x00},
			},
			expected: []byte{0x20, 0x02, 0x01, 0x00},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tc.connack.Pack(&buf); err != nil {
				t.Fatalf("Pack() failed: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), tc.expected) {
				t.Errorf("Pack() = % X, want % X", buf.Bytes(), tc.expected)
			}
		})
	}
}

// TestCONNACK_Unpack 测试CONNACK报文的反序列化
func TestCONNACK_Unpack(t *testing.T) {
	testCases := []struct {
		name               string
		data               []byte
		wantSessionPresent uint8
		wantReturnCode     uint8
	}{
		{name: "Accepted", data: []byte{0x00, 0x00}, wantSessionPresent: 0, wantReturnCode: 0x00},
		{name: "Refused", data: []byte{0x00, 0x05}, wantSessionPresent: 0, wantReturnCode: 0x05},
		{name: "SessionPresent", data: []byte{0x01, 0x00}, wantSessionPresent: 1, wantReturnCode: 0x00},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			connack := &CONNACK{FixedHeader: &FixedHeader{Kind: 0x02, Version: VERSION311}}
			if err := connack.Unpack(bytes.NewBuffer(tc.data)); err != nil {
				t.Fatalf("Unpack() failed: %v", err)
			}
			if connack.SessionPresent != tc.wantSessionPresent {
				t.Errorf("SessionPresent = %v, want %v", connack.SessionPresent, tc.wantSessionPresent)
			}
			if connack.ConnectReturnCode.Code != tc.wantReturnCode {
				t.Errorf("ConnectReturnCode = %d, want %d", connack.ConnectReturnCode.Code, tc.wantReturnCode)
			}
		})
	}
}

// TestCONNACK_RoundTrip 测试序列化后再反序列化保持一致
func TestCONNACK_RoundTrip(t *testing.T) {
	original := &CONNACK{
		FixedHeader:       &FixedHeader{Kind: 0x02, Version: VERSION311},
		SessionPresent:    1,
		ConnectReturnCode: ReasonCode{Code: 0x00},
	}

	var buf bytes.Buffer
	if err := original.Pack(&buf); err != nil {
		t.Fatalf("Pack() failed: %v", err)
	}

	data := buf.Bytes()
	fh := &FixedHeader{}
	r := bytes.NewBuffer(data)
	if err := fh.Unpack(r); err != nil {
		t.Fatalf("FixedHeader.Unpack() failed: %v", err)
	}

	got := &CONNACK{FixedHeader: fh}
	if err := got.Unpack(r); err != nil {
		t.Fatalf("Unpack() failed: %v", err)
	}
	if got.SessionPresent != original.SessionPresent || got.ConnectReturnCode.Code != original.ConnectReturnCode.Code {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, original)
	}
}

// BenchmarkCONNACK_Pack 性能测试：序列化
func BenchmarkCONNACK_Pack(b *testing.B) {
	connack := &CONNACK{
		FixedHeader:       &FixedHeader{Kind: 0x02, Version: VERSION311},
		ConnectReturnCode: ReasonCode{Code: 0x00},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		connack.Pack(&buf)
	}
}
