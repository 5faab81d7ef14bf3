package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/hush/internal/envelope"
	"github.com/PolarWolf314/hush/internal/utils"
)

func TestEncryptDecryptCommands(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	setupTestEnvironment(t)

	encoded, stderr, err := runCommand(t, "", "encrypt", "my", "database", "password")
	if err != nil {
		t.Fatalf("encrypt failed: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stderr, "Generated a new 2048-bit key pair") {
		t.Errorf("Expected key generation notice on stderr, got: %s", stderr)
	}
	if strings.Count(encoded, "\n") != 1 {
		t.Errorf("Expected stdout to hold only the envelope, got: %q", encoded)
	}
	if _, err := envelope.Decode(encoded); err != nil {
		t.Fatalf("stdout is not a valid envelope: %v", err)
	}

	plaintext, stderr, err := runCommand(t, "", "decrypt", strings.TrimSpace(encoded))
	if err != nil {
		t.Fatalf("decrypt failed: %v\nstderr: %s", err, stderr)
	}
	if plaintext != "my database password" {
		t.Errorf("Expected decrypted text, got %q", plaintext)
	}
}

func TestEncryptFromStdin(t *testing.T) {
	setupTestEnvironment(t)

	encoded, _, err := runCommand(t, "line one\nline two\n", "encrypt", "--stdin")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	// Whitespace around the envelope, as left by copy and paste, is tolerated.
	plaintext, _, err := runCommand(t, "\n  "+encoded+"  \n", "decrypt", "--stdin")
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if plaintext != "line one\nline two\n" {
		t.Errorf("Expected stdin to round trip byte for byte, got %q", plaintext)
	}
}

func TestPipedRoundTripIsByteExact(t *testing.T) {
	setupTestEnvironment(t)

	for _, input := range []string{"abc", "abc\n", ""} {
		encoded, _, err := runCommand(t, input, "encrypt", "--stdin")
		if err != nil {
			t.Fatalf("encrypt %q failed: %v", input, err)
		}
		if !strings.HasSuffix(encoded, "\n") {
			t.Errorf("Expected the envelope to end with a newline, got %q", encoded)
		}

		plaintext, _, err := runCommand(t, encoded, "decrypt", "--stdin")
		if err != nil {
			t.Fatalf("decrypt %q failed: %v", input, err)
		}
		if plaintext != input {
			t.Errorf("Expected %q back, got %q", input, plaintext)
		}
	}
}

func TestEncryptNoInput(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	setupTestEnvironment(t)

	if utils.StdinIsPiped() {
		t.Skip("stdin is piped in this environment")
	}

	stdout, stderr, err := runCommand(t, "", "encrypt")
	if err == nil {
		t.Fatal("Expected an error without input")
	}
	if !Reported(err) {
		t.Errorf("Expected the error to be reported by the command, got %v", err)
	}
	if stdout != "" {
		t.Errorf("Expected empty stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "No input provided") {
		t.Errorf("Expected no input message, got: %s", stderr)
	}
}

func TestEncryptArgsAndStdinConflict(t *testing.T) {
	setupTestEnvironment(t)

	if _, _, err := runCommand(t, "x", "encrypt", "--stdin", "text"); err == nil {
		t.Error("Expected arguments combined with --stdin to fail")
	}
}

func TestDecryptFailureMessageIsUniform(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	setupTestEnvironment(t)

	encoded, _, err := runCommand(t, "", "encrypt", "secret")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	raw, err := envelope.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	// Flip a bit in the wrapped key, then in the last IV byte, which turns
	// the final padding byte of the single plaintext block invalid.
	keyLen := int(raw[0])<<8 | int(raw[1])
	keyTampered := append([]byte(nil), raw...)
	keyTampered[envelope.PrefixSize+10] ^= 0x01
	bodyTampered := append([]byte(nil), raw...)
	bodyTampered[envelope.PrefixSize+keyLen+envelope.IVSize-1] ^= 0x01

	var messages []string
	for _, data := range [][]byte{keyTampered, bodyTampered} {
		stdout, stderr, err := runCommand(t, "", "decrypt", envelope.Encode(data))
		if err == nil {
			t.Fatal("Expected tampered envelope to fail")
		}
		if stdout != "" {
			t.Errorf("Expected no plaintext on failure, got %q", stdout)
		}
		messages = append(messages, stderr)
	}

	if messages[0] != messages[1] {
		t.Errorf("Expected identical failure output, got %q and %q", messages[0], messages[1])
	}
	if strings.TrimSpace(messages[0]) != "✗ decryption failed" {
		t.Errorf("Unexpected failure output: %q", messages[0])
	}
}

func TestDecryptMalformed(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	setupTestEnvironment(t)

	if _, _, err := runCommand(t, "", "keys", "init"); err != nil {
		t.Fatalf("keys init failed: %v", err)
	}

	_, stderr, err := runCommand(t, "", "decrypt", "AAEC")
	if err == nil {
		t.Fatal("Expected truncated envelope to fail")
	}
	if !strings.Contains(stderr, "not a valid hush envelope") {
		t.Errorf("Expected malformed envelope message, got: %s", stderr)
	}
}

func TestDecryptWithoutKeys(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	userDir := setupTestEnvironment(t)

	_, stderr, err := runCommand(t, "", "decrypt", "AAEC")
	if err == nil {
		t.Fatal("Expected decrypt without keys to fail")
	}
	if !strings.Contains(stderr, "hush keys init") {
		t.Errorf("Expected hint to create keys, got: %s", stderr)
	}
	if _, err := os.Stat(filepath.Join(userDir, "keys", "hush")); !os.IsNotExist(err) {
		t.Error("decrypt must not generate a key pair")
	}
}

func TestKeysDirFlag(t *testing.T) {
	setupTestEnvironment(t)
	otherDir := t.TempDir()

	if _, _, err := runCommand(t, "", "--keys-dir", otherDir, "--key-name", "work", "encrypt", "x"); err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	for _, name := range []string{"work", "work.pub", "work.metadata.toml"} {
		if _, err := os.Stat(filepath.Join(otherDir, name)); err != nil {
			t.Errorf("Expected %s in --keys-dir: %v", name, err)
		}
	}
}
