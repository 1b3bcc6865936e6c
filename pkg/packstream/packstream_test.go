package packstream

import (
	"bytes"
	"testing"
)

func TestIntRoundTripNarrowest(t *testing.T) {
	cases := []struct {
		v        int64
		wantLen  int
	}{
		{0, 1},
		{-16, 1},
		{127, 1},
		{-17, 2},
		{128, 3}, // outside INT_8's -128..127, so INT_16
		{32000, 3},
		{70000, 5},
		{1 << 40, 9},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		if err := w.WriteInt(c.v); err != nil {
			t.Fatalf("WriteInt(%d): %v", c.v, err)
		}
		if buf.Len() != c.wantLen {
			t.Fatalf("WriteInt(%d) wrote %d bytes, want %d", c.v, buf.Len(), c.wantLen)
		}
		r := NewReader(&buf)
		got, err := r.ReadInt()
		if err != nil {
			t.Fatalf("ReadInt: %v", err)
		}
		if got != c.v {
			t.Fatalf("round trip: got %d, want %d", got, c.v)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "hello, world", string(make([]byte, 300))} {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		if err := w.WriteString(s); err != nil {
			t.Fatalf("WriteString: %v", err)
		}
		r := NewReader(&buf)
		got, err := r.ReadString()
		if err != nil {
			t.Fatalf("ReadString: %v", err)
		}
		if got != s {
			t.Fatalf("round trip mismatch: got %q len=%d want len=%d", got, len(got), len(s))
		}
	}
}

func TestStructHeaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteStructHeader(0x01, 3); err != nil {
		t.Fatal(err)
	}
	r := NewReader(&buf)
	sig, n, err := r.ReadStructHeader()
	if err != nil {
		t.Fatal(err)
	}
	if sig != 0x01 || n != 3 {
		t.Fatalf("got sig=0x%02X fields=%d, want 0x01 3", sig, n)
	}
}

func TestPeekTypeClassifiesWithoutConsuming(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	_ = w.WriteString("hi")
	r := NewReader(&buf)
	tag, err := r.PeekType()
	if err != nil {
		t.Fatal(err)
	}
	if tag != TagString {
		t.Fatalf("got %v, want String", tag)
	}
	s, err := r.ReadString()
	if err != nil || s != "hi" {
		t.Fatalf("ReadString after peek: %q, %v", s, err)
	}
}

func TestReadUnknownMarkerFailsMalformed(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xC7}))
	if _, err := r.ReadInt(); err == nil {
		t.Fatal("expected malformed error on unknown marker")
	} else if _, ok := err.(*MalformedError); !ok {
		t.Fatalf("expected *MalformedError, got %T", err)
	}
}

func TestReadTruncatedFailsMalformed(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{markerInt32, 0x00, 0x01}))
	if _, err := r.ReadInt(); err == nil {
		t.Fatal("expected malformed error on truncated input")
	}
}

func FuzzIntRoundTrip(f *testing.F) {
	for _, v := range []int64{0, -1, 1, -16, 127, 128, -129, 1 << 40, -(1 << 40)} {
		f.Add(v)
	}
	f.Fuzz(func(t *testing.T, v int64) {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		if err := w.WriteInt(v); err != nil {
			t.Fatalf("WriteInt: %v", err)
		}
		r := NewReader(&buf)
		got, err := r.ReadInt()
		if err != nil {
			t.Fatalf("ReadInt: %v", err)
		}
		if got != v {
			t.Fatalf("round trip: got %d, want %d", got, v)
		}
	})
}
