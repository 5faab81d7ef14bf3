package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"io"
	"math"

	"github.com/PolarWolf314/hush/internal/envelope"
	kerrors "github.com/PolarWolf314/hush/internal/errors"
)

const (
	// SessionKeySize is the AES-256 key length in bytes.
	SessionKeySize = 32

	// minModulusBytes is the smallest modulus that can OAEP-wrap a session
	// key with SHA-256: 2*hLen + 2 + SessionKeySize.
	minModulusBytes = 2*sha256.Size + 2 + SessionKeySize
)

// Encryptor seals plaintext for a single RSA public key.
type Encryptor struct {
	// Rand is the source of session keys, IVs and OAEP seeds.
	// crypto/rand.Reader is used when nil.
	Rand io.Reader
}

// Encrypt seals plaintext under pub with a fresh session key and returns the
// base64 envelope.
func Encrypt(plaintext []byte, pub *rsa.PublicKey) (string, error) {
	return Encryptor{}.Encrypt(plaintext, pub)
}

// Encrypt seals plaintext under pub with a fresh session key and returns the
// base64 envelope.
func (e Encryptor) Encrypt(plaintext []byte, pub *rsa.PublicKey) (string, error) {
	env, err := e.Seal(plaintext, pub)
	if err != nil {
		return "", err
	}

	data, err := env.Marshal()
	if err != nil {
		return "", fmt.Errorf("%w: %w", kerrors.ErrEncryption, err)
	}
	return envelope.Encode(data), nil
}

// Seal performs the cryptographic part of Encrypt and returns the unencoded envelope.
func (e Encryptor) Seal(plaintext []byte, pub *rsa.PublicKey) (envelope.Envelope, error) {
	if pub == nil || pub.N == nil {
		return envelope.Envelope{}, fmt.Errorf("%w: no public key", kerrors.ErrEncryption)
	}
	if size := pub.Size(); size < minModulusBytes || size > math.MaxUint16 {
		return envelope.Envelope{}, fmt.Errorf("%w: %d-bit key cannot wrap a session key", kerrors.ErrEncryption, pub.N.BitLen())
	}

	random := e.Rand
	if random == nil {
		random = rand.Reader
	}

	sessionKey := make([]byte, SessionKeySize)
	defer clear(sessionKey)
	if _, err := io.ReadFull(random, sessionKey); err != nil {
		return envelope.Envelope{}, fmt.Errorf("%w: generating session key: %w", kerrors.ErrEncryption, err)
	}

	iv := make([]byte, envelope.IVSize)
	if _, err := io.ReadFull(random, iv); err != nil {
		return envelope.Envelope{}, fmt.Errorf("%w: generating IV: %w", kerrors.ErrEncryption, err)
	}

	block, err := aes.NewCipher(sessionKey)
	if err != nil {
		return envelope.Envelope{}, fmt.Errorf("%w: %w", kerrors.ErrEncryption, err)
	}
	ciphertext := pad(plaintext, aes.BlockSize)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, ciphertext)

	encryptedKey, err := rsa.EncryptOAEP(sha256.New(), random, pub, sessionKey, nil)
	if err != nil {
		return envelope.Envelope{}, fmt.Errorf("%w: wrapping session key: %w", kerrors.ErrEncryption, err)
	}

	return envelope.Envelope{
		EncryptedKey: encryptedKey,
		IV:           iv,
		Ciphertext:   ciphertext,
	}, nil
}
