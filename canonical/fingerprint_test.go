package canonical

import (
	"bytes"
	"testing"
)

func TestRabin64_EmptyInput(t *testing.T) {
	if got := Rabin64(nil); got != empty64 {
		t.Fatalf("fingerprint of empty input = %#x, want the empty constant %#x", got, empty64)
	}
}

func TestRabin64_LeadingZeroSensitive(t *testing.T) {
	a := Rabin64([]byte{0x00, 0x01})
	b := Rabin64([]byte{0x01})
	if a == b {
		t.Fatalf("a leading zero byte must perturb the fingerprint")
	}
}

func TestRabin64_Deterministic(t *testing.T) {
	data := []byte(`{"name":"shop.Order","type":"record","fields":[]}`)
	if Rabin64(data) != Rabin64(data) {
		t.Fatalf("fingerprint must be a pure function of the input")
	}
}

func TestFingerprint_Lengths(t *testing.T) {
	data := []byte(`"string"`)
	cases := []struct {
		alg  Algorithm
		size int
	}{
		{AlgRabin64, 8},
		{AlgMD5, 16},
		{AlgSHA256, 32},
	}
	for _, c := range cases {
		sum, err := Fingerprint(c.alg, data)
		if err != nil {
			t.Fatalf("Fingerprint(%s): %v", c.alg, err)
		}
		if len(sum) != c.size {
			t.Fatalf("Fingerprint(%s) length = %d, want %d", c.alg, len(sum), c.size)
		}
	}
}

func TestFingerprint_UnknownAlgorithm(t *testing.T) {
	if _, err := Fingerprint(Algorithm("crc32"), []byte("x")); err == nil {
		t.Fatalf("unknown algorithm must error, never silently default")
	}
}

func TestFingerprint_RabinLittleEndian(t *testing.T) {
	data := []byte(`"null"`)
	sum, err := Fingerprint(AlgRabin64, data)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	fp := Rabin64(data)
	want := []byte{
		byte(fp), byte(fp >> 8), byte(fp >> 16), byte(fp >> 24),
		byte(fp >> 32), byte(fp >> 40), byte(fp >> 48), byte(fp >> 56),
	}
	if !bytes.Equal(sum, want) {
		t.Fatalf("rabin encoding = %x, want little-endian %x", sum, want)
	}
}

func TestDiff(t *testing.T) {
	a := []byte(`{"name":"A","type":"record","fields":[]}`)
	if Diff(a, a) != "" {
		t.Fatalf("equal inputs must produce an empty diff")
	}
	b := []byte(`{"name":"B","type":"record","fields":[]}`)
	if Diff(a, b) == "" {
		t.Fatalf("different inputs must produce a non-empty diff")
	}
}
