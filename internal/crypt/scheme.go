package crypt

import (
	"crypto/rsa"
	"io"

	"github.com/PolarWolf314/hush/internal/keystore"
)

// Scheme is the algorithm suite used to generate keys and seal text.
// hush ships exactly one implementation; the interface keeps callers from
// depending on its internals.
type Scheme interface {
	Name() string
	GenerateKey(random io.Reader) (*rsa.PrivateKey, error)
	Seal(plaintext []byte, pub *rsa.PublicKey) (string, error)
	Open(encoded string, priv *rsa.PrivateKey) ([]byte, error)
}

// RSAOAEPAES256CBC wraps a per-message AES-256-CBC key with RSA-OAEP/SHA-256.
type RSAOAEPAES256CBC struct {
	// Rand overrides crypto/rand.Reader for sealing. Tests only.
	Rand io.Reader
}

// DefaultScheme is the suite used by every hush command.
var DefaultScheme Scheme = RSAOAEPAES256CBC{}

func (RSAOAEPAES256CBC) Name() string {
	return "RSA-4096-OAEP-SHA256+AES-256-CBC"
}

func (RSAOAEPAES256CBC) GenerateKey(random io.Reader) (*rsa.PrivateKey, error) {
	return keystore.GenerateKey(random)
}

func (s RSAOAEPAES256CBC) Seal(plaintext []byte, pub *rsa.PublicKey) (string, error) {
	return Encryptor{Rand: s.Rand}.Encrypt(plaintext, pub)
}

func (RSAOAEPAES256CBC) Open(encoded string, priv *rsa.PrivateKey) ([]byte, error) {
	return Decrypt(encoded, priv)
}
