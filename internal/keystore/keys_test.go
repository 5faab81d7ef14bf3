package keystore

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"

	"golang.org/x/crypto/ssh"
)

func TestParsePrivateKeyFormats(t *testing.T) {
	key := fastKey(t, 0)

	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("failed to marshal PKCS#8: %v", err)
	}
	openSSH, err := ssh.MarshalPrivateKey(key, "")
	if err != nil {
		t.Fatalf("failed to marshal OpenSSH key: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"PKCS1", encodePrivateKey(key)},
		{"PKCS8", pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8})},
		{"OpenSSH", pem.EncodeToMemory(openSSH)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := parsePrivateKey(tc.data, nil)
			if err != nil {
				t.Fatalf("parsePrivateKey failed: %v", err)
			}
			if parsed.N.Cmp(key.N) != 0 || parsed.D.Cmp(key.D) != 0 {
				t.Error("parsed key does not match original")
			}
		})
	}
}

func TestParsePassphraseProtectedOpenSSH(t *testing.T) {
	key := fastKey(t, 0)
	block, err := ssh.MarshalPrivateKeyWithPassphrase(key, "", []byte("secret"))
	if err != nil {
		t.Fatalf("failed to marshal key: %v", err)
	}
	data := pem.EncodeToMemory(block)

	t.Run("NoPassphraseSource", func(t *testing.T) {
		_, err := parsePrivateKey(data, nil)
		if !errors.Is(err, ErrPassphraseProtected) {
			t.Fatalf("expected ErrPassphraseProtected, got: %v", err)
		}
	})

	t.Run("PromptFails", func(t *testing.T) {
		_, err := parsePrivateKey(data, func() ([]byte, error) {
			return nil, errors.New("no tty")
		})
		if !errors.Is(err, ErrPassphraseProtected) {
			t.Fatalf("expected ErrPassphraseProtected, got: %v", err)
		}
	})

	t.Run("WrongPassphrase", func(t *testing.T) {
		_, err := parsePrivateKey(data, func() ([]byte, error) {
			return []byte("wrong"), nil
		})
		if err == nil {
			t.Fatal("expected error for wrong passphrase")
		}
	})

	t.Run("CorrectPassphrase", func(t *testing.T) {
		parsed, err := parsePrivateKey(data, func() ([]byte, error) {
			return []byte("secret"), nil
		})
		if err != nil {
			t.Fatalf("parsePrivateKey failed: %v", err)
		}
		if parsed.N.Cmp(key.N) != 0 {
			t.Error("parsed key does not match original")
		}
	})
}

func TestParsePrivateKeyRejectsInvalidData(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate EC key: %v", err)
	}
	ecPKCS8, err := x509.MarshalPKCS8PrivateKey(ecKey)
	if err != nil {
		t.Fatalf("failed to marshal EC key: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"Empty", nil},
		{"NotPEM", []byte("just some text")},
		{"WrongType", pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte{1, 2, 3}})},
		{"GarbagePKCS1", pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: []byte{1, 2, 3}})},
		{"ECKeyInPKCS8", pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: ecPKCS8})},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parsePrivateKey(tc.data, nil); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParsePublicKeyRejectsPrivateBlock(t *testing.T) {
	if _, err := parsePublicKey(encodePrivateKey(fastKey(t, 0))); err == nil {
		t.Fatal("expected error when parsing a private key as public")
	}
}
