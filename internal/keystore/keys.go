package keystore

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/ssh"
)

const (
	// KeyBits is the modulus size of generated key pairs.
	KeyBits = 4096

	// PublicExponent is the RSA public exponent used by crypto/rsa.
	PublicExponent = 65537

	privateKeyPEMType = "RSA PRIVATE KEY"
	pkcs8KeyPEMType   = "PRIVATE KEY"
	openSSHPEMType    = "OPENSSH PRIVATE KEY"
	publicKeyPEMType  = "PUBLIC KEY"
)

// ErrPassphraseProtected is returned for OpenSSH keys that need a passphrase
// when none could be obtained.
var ErrPassphraseProtected = errors.New("private key is passphrase-protected")

// PassphraseFunc supplies the passphrase of an encrypted OpenSSH private key.
type PassphraseFunc func() ([]byte, error)

// GenerateKey creates a new KeyBits-sized RSA key from r.
func GenerateKey(r io.Reader) (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(r, KeyBits)
}

// KeyPair is a loaded RSA key pair. It is never mutated after loading and may
// be shared between goroutines.
type KeyPair struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey

	// Generated is true when this call created the pair.
	Generated bool
}

// ModulusBytes returns the byte length of the modulus, which is also the
// length of every RSA ciphertext produced under this pair.
func (p *KeyPair) ModulusBytes() int {
	return p.Public.Size()
}

// Fingerprint returns the SHA256 fingerprint of the public key in OpenSSH notation.
func (p *KeyPair) Fingerprint() (string, error) {
	return Fingerprint(p.Public)
}

// Fingerprint returns the SHA256 fingerprint of pub in OpenSSH notation.
func Fingerprint(pub *rsa.PublicKey) (string, error) {
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("failed to convert public key: %w", err)
	}
	return ssh.FingerprintSHA256(sshPub), nil
}

// encodePrivateKey returns the PKCS#1 PEM form of key.
func encodePrivateKey(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  privateKeyPEMType,
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

// encodePublicKey returns the PKIX PEM form of pub.
func encodePublicKey(pub *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:  publicKeyPEMType,
		Bytes: der,
	}), nil
}

// parsePrivateKey accepts PKCS#1, PKCS#8 and OpenSSH RSA keys. Encrypted
// OpenSSH keys are opened with the passphrase from passphrase, if non-nil.
func parsePrivateKey(data []byte, passphrase PassphraseFunc) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block containing private key")
	}

	var key *rsa.PrivateKey
	switch block.Type {
	case privateKeyPEMType:
		parsed, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		key = parsed
	case pkcs8KeyPEMType:
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		rsaKey, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("not an RSA private key: %T", parsed)
		}
		key = rsaKey
	case openSSHPEMType:
		rsaKey, err := parseOpenSSHPrivateKey(data, passphrase)
		if err != nil {
			return nil, err
		}
		key = rsaKey
	default:
		return nil, fmt.Errorf("unsupported PEM block type %q", block.Type)
	}

	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("invalid RSA private key: %w", err)
	}
	return key, nil
}

func parseOpenSSHPrivateKey(data []byte, passphrase PassphraseFunc) (*rsa.PrivateKey, error) {
	raw, err := ssh.ParseRawPrivateKey(data)

	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) {
		if passphrase == nil {
			return nil, ErrPassphraseProtected
		}
		secret, promptErr := passphrase()
		if promptErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrPassphraseProtected, promptErr)
		}
		raw, err = ssh.ParseRawPrivateKeyWithPassphrase(data, secret)
		clear(secret)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenSSH private key: %w", err)
	}

	rsaKey, ok := raw.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("unsupported OpenSSH key type %T, only RSA keys are supported", raw)
	}
	return rsaKey, nil
}

func parsePublicKey(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != publicKeyPEMType {
		return nil, fmt.Errorf("failed to decode PEM block containing public key")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA public key")
	}
	return rsaPub, nil
}
