package crypt

import (
	"fmt"

	kerrors "github.com/PolarWolf314/hush/internal/errors"
	"github.com/PolarWolf314/hush/internal/keystore"
	logger "github.com/PolarWolf314/hush/internal/logging"
)

// Engine binds a loaded key pair to a Scheme and exposes the text-in,
// text-out contract used by the CLI. An Engine holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	scheme Scheme
	pair   *keystore.KeyPair
	log    logger.Logger
}

// NewEngine returns an Engine for pair using DefaultScheme.
func NewEngine(pair *keystore.KeyPair, log logger.Logger) (*Engine, error) {
	return NewEngineWithScheme(DefaultScheme, pair, log)
}

// NewEngineWithScheme returns an Engine for pair using scheme.
func NewEngineWithScheme(scheme Scheme, pair *keystore.KeyPair, log logger.Logger) (*Engine, error) {
	if pair == nil || pair.Private == nil || pair.Public == nil {
		return nil, fmt.Errorf("%w: engine requires a loaded key pair", kerrors.ErrKeyLoad)
	}
	return &Engine{scheme: scheme, pair: pair, log: log}, nil
}

// Scheme returns the algorithm suite in use.
func (e *Engine) Scheme() Scheme {
	return e.scheme
}

// EncryptBytes seals plaintext under the engine's public key.
func (e *Engine) EncryptBytes(plaintext []byte) (string, error) {
	encoded, err := e.scheme.Seal(plaintext, e.pair.Public)
	if err != nil {
		return "", err
	}
	e.log.Debugf("Sealed %d plaintext bytes into %d encoded characters", len(plaintext), len(encoded))
	return encoded, nil
}

// DecryptBytes opens an encoded envelope with the engine's private key.
func (e *Engine) DecryptBytes(encoded string) ([]byte, error) {
	plaintext, err := e.scheme.Open(encoded, e.pair.Private)
	if err != nil {
		return nil, err
	}
	e.log.Debugf("Opened envelope of %d encoded characters", len(encoded))
	return plaintext, nil
}

// EncryptText seals a string.
func (e *Engine) EncryptText(text string) (string, error) {
	return e.EncryptBytes([]byte(text))
}

// DecryptText opens an envelope and returns its contents as a string.
func (e *Engine) DecryptText(encoded string) (string, error) {
	plaintext, err := e.DecryptBytes(encoded)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
