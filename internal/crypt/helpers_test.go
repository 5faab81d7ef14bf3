package crypt

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"sync"
	"testing"

	"github.com/PolarWolf314/hush/internal/keystore"
)

var (
	testKeysOnce sync.Once
	testKeys     [2]*rsa.PrivateKey
	testKeysErr  error
)

// testKey returns one of two 4096-bit keys shared by every test in the package.
func testKey(t *testing.T, i int) *rsa.PrivateKey {
	t.Helper()
	testKeysOnce.Do(func() {
		for j := range testKeys {
			testKeys[j], testKeysErr = keystore.GenerateKey(rand.Reader)
			if testKeysErr != nil {
				return
			}
		}
	})
	if testKeysErr != nil {
		t.Fatalf("failed to generate test key: %v", testKeysErr)
	}
	return testKeys[i]
}

func testPair(t *testing.T) *keystore.KeyPair {
	t.Helper()
	key := testKey(t, 0)
	return &keystore.KeyPair{Private: key, Public: &key.PublicKey}
}

var errEntropy = errors.New("entropy source exhausted")

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errEntropy
}
