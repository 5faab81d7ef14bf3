package envelope

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/hush/internal/errors"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	large := make([]byte, 64*1024)
	if _, err := rand.Read(large); err != nil {
		t.Fatalf("failed to read random bytes: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"OneByte", []byte{0x00}},
		{"TwoBytes", []byte{0xff, 0x01}},
		{"ThreeBytes", []byte("abc")},
		{"Unicode", []byte("Secret message with Unicode 🔒")},
		{"Large", large},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := Decode(Encode(tc.data))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !bytes.Equal(decoded, tc.data) {
				t.Errorf("round trip mismatch for %d bytes", len(tc.data))
			}
		})
	}
}

func TestDecodeAcceptsMissingPadding(t *testing.T) {
	for _, data := range [][]byte{[]byte("a"), []byte("ab"), []byte("abcd"), []byte("hello world")} {
		encoded := Encode(data)
		stripped := strings.TrimRight(encoded, "=")

		decoded, err := Decode(stripped)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", stripped, err)
		}
		if !bytes.Equal(decoded, data) {
			t.Errorf("Decode(%q) = %q, expected %q", stripped, decoded, data)
		}
	}
}

func TestEncodeOfDecodeIsIdentity(t *testing.T) {
	valid := []string{"AA==", "AAE=", "YWJj", "SGVsbG8sIHdvcmxkIQ=="}
	for _, text := range valid {
		data, err := Decode(text)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", text, err)
		}
		if got := Encode(data); got != text {
			t.Errorf("Encode(Decode(%q)) = %q", text, got)
		}
	}
}

func TestDecodeTrimsSurroundingWhitespace(t *testing.T) {
	decoded, err := Decode("  YWJj\n")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(decoded) != "abc" {
		t.Errorf("expected abc, got %q", decoded)
	}
}

func TestDecodeRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"Whitespace", "   "},
		{"LengthModFourIsOne", "YWJjZ"},
		{"IllegalCharacter", "YW*j"},
		{"URLAlphabet", "-_-_"},
		{"NonCanonicalTrailingBits", "YR=="},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.input)
			if err == nil {
				t.Fatalf("expected error for %q", tc.input)
			}
			if !kerrors.Is(err, kerrors.ErrMalformedEnvelope) {
				t.Errorf("expected ErrMalformedEnvelope, got: %v", err)
			}
		})
	}
}
