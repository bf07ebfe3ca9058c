package wire

import "testing"

func TestReaderU16U32(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x00, 0x00, 0x01, 0x00})
	v16, err := r.U16()
	if err != nil || v16 != 0x0102 {
		t.Fatalf("U16 = %v, %v; want 0x0102", v16, err)
	}
	v32, err := r.U32()
	if err != nil || v32 != 0x00000100 {
		t.Fatalf("U32 = %v, %v; want 0x100", v32, err)
	}
}

func TestReaderF64RoundTrip(t *testing.T) {
	w := NewWriter().F64(3.14159265)
	r := NewReader(w.Bytes())
	v, err := r.F64()
	if err != nil {
		t.Fatalf("F64: %v", err)
	}
	if v != 3.14159265 {
		t.Errorf("F64 = %v, want 3.14159265", v)
	}
}

func TestReaderASCIITrimsNulPadding(t *testing.T) {
	r := NewReader([]byte{'h', 'i', 0, 0, 0})
	s, err := r.ASCII(5)
	if err != nil {
		t.Fatalf("ASCII: %v", err)
	}
	if s != "hi" {
		t.Errorf("ASCII = %q, want %q", s, "hi")
	}
}

func TestReaderRequireErrorsOnShortBuffer(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.U16(); err == nil {
		t.Error("expected error reading U16 from 1-byte buffer")
	}
}

func TestReaderOffsetAdvances(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03})
	r.U8()
	if r.Offset() != 1 {
		t.Errorf("Offset() = %d, want 1", r.Offset())
	}
	if r.Remaining() != 2 {
		t.Errorf("Remaining() = %d, want 2", r.Remaining())
	}
}
