package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	"github.com/PolarWolf314/hush/internal/envelope"
	kerrors "github.com/PolarWolf314/hush/internal/errors"
)

// Decrypt opens an encoded envelope with priv.
//
// Structural problems are reported as ErrMalformedEnvelope before any RSA or
// AES operation runs. A failed key unwrap returns ErrKeyRecovery and bad
// padding returns ErrPadding; both are returned without a cause.
func Decrypt(encoded string, priv *rsa.PrivateKey) ([]byte, error) {
	if priv == nil || priv.N == nil {
		return nil, fmt.Errorf("%w: no private key", kerrors.ErrKeyLoad)
	}

	data, err := envelope.Decode(encoded)
	if err != nil {
		return nil, err
	}

	env, err := envelope.Parse(data, priv.Size())
	if err != nil {
		return nil, err
	}

	return Open(env, priv)
}

// Open decrypts a parsed envelope.
func Open(env envelope.Envelope, priv *rsa.PrivateKey) ([]byte, error) {
	if priv == nil || priv.N == nil {
		return nil, fmt.Errorf("%w: no private key", kerrors.ErrKeyLoad)
	}
	if len(env.EncryptedKey) != priv.Size() || len(env.IV) != envelope.IVSize ||
		len(env.Ciphertext) == 0 || len(env.Ciphertext)%aes.BlockSize != 0 {
		return nil, kerrors.ErrMalformedEnvelope
	}

	sessionKey, err := rsa.DecryptOAEP(sha256.New(), nil, priv, env.EncryptedKey, nil)
	if err != nil || len(sessionKey) != SessionKeySize {
		return nil, kerrors.ErrKeyRecovery
	}
	defer clear(sessionKey)

	block, err := aes.NewCipher(sessionKey)
	if err != nil {
		return nil, kerrors.ErrKeyRecovery
	}

	padded := make([]byte, len(env.Ciphertext))
	cipher.NewCBCDecrypter(block, env.IV).CryptBlocks(padded, env.Ciphertext)

	plaintext, err := unpad(padded, aes.BlockSize)
	if err != nil {
		return nil, kerrors.ErrPadding
	}
	return plaintext, nil
}
