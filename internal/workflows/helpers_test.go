package workflows

import (
	"crypto/rand"
	"crypto/rsa"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/PolarWolf314/hush/internal/configs"
	"github.com/PolarWolf314/hush/internal/keystore"
)

var (
	testKeysOnce sync.Once
	testKeys     [2]*rsa.PrivateKey
	testKeysErr  error
)

// testKey returns one of two cached 2048-bit keys. Workflow tests exercise
// orchestration, not key size, so they skip 4096-bit generation.
func testKey(t *testing.T, i int) *rsa.PrivateKey {
	t.Helper()
	testKeysOnce.Do(func() {
		for n := range testKeys {
			testKeys[n], testKeysErr = rsa.GenerateKey(rand.Reader, 2048)
			if testKeysErr != nil {
				return
			}
		}
	})
	if testKeysErr != nil {
		t.Fatalf("Failed to generate test key: %v", testKeysErr)
	}
	return testKeys[i]
}

// setupWorkflowTest points settings at a temp directory and returns options
// that generate key i when a pair is created.
func setupWorkflowTest(t *testing.T, i int) KeyOptions {
	t.Helper()
	tempDir := t.TempDir()
	key := testKey(t, i)

	originalSettings := configs.UserHushSettings
	originalConfig := configs.GlobalUserConfig
	configs.UserHushSettings = &configs.UserSettings{
		KeysPath:    filepath.Join(tempDir, "keys"),
		ConfigsPath: filepath.Join(tempDir, "config"),
		KeyName:     "hush",
		Username:    "testuser",
	}
	configs.GlobalUserConfig = &configs.UserConfig{}
	t.Cleanup(func() {
		configs.UserHushSettings = originalSettings
		configs.GlobalUserConfig = originalConfig
	})

	return KeyOptions{
		StoreOptions: []keystore.Option{
			keystore.WithKeyGenerator(func(io.Reader) (*rsa.PrivateKey, error) {
				return key, nil
			}),
		},
	}
}
