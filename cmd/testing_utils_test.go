// Shared helpers for command tests: temporary settings, a cached test key
// and execution of the real command tree with captured output.
package cmd

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/PolarWolf314/hush/internal/configs"
	"github.com/PolarWolf314/hush/internal/keystore"
	logger "github.com/PolarWolf314/hush/internal/logging"
)

var (
	testKeyOnce sync.Once
	testKeyVal  *rsa.PrivateKey
	testKeyErr  error
)

// setupTestEnvironment points settings at temporary directories and makes
// new key pairs use a cached 2048-bit key. It returns the temp user dir.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()
	tempUserDir := t.TempDir()

	testKeyOnce.Do(func() {
		testKeyVal, testKeyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	if testKeyErr != nil {
		t.Fatalf("Failed to generate test key: %v", testKeyErr)
	}

	originalSettings := configs.UserHushSettings
	originalConfig := configs.GlobalUserConfig
	configs.UserHushSettings = &configs.UserSettings{
		KeysPath:    filepath.Join(tempUserDir, "keys"),
		ConfigsPath: filepath.Join(tempUserDir, "config"),
		KeyName:     "hush",
		Username:    "testuser",
	}
	configs.GlobalUserConfig = &configs.UserConfig{}

	ResetGlobalState()
	SetKeyStoreOptions(keystore.WithKeyGenerator(func(io.Reader) (*rsa.PrivateKey, error) {
		return testKeyVal, nil
	}))

	t.Cleanup(func() {
		configs.UserHushSettings = originalSettings
		configs.GlobalUserConfig = originalConfig
		ResetGlobalState()
		SetLogger(logger.Logger{})
	})

	return tempUserDir
}

// runCommand executes hush with args and stdin, returning stdout and stderr.
func runCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	ResetGlobalState()
	root := GetHushCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	t.Cleanup(func() {
		root.SetOut(nil)
		root.SetErr(nil)
		root.SetIn(nil)
		root.SetArgs(nil)
	})

	// ResetGlobalState clears the key generator, so restore it for this run.
	SetKeyStoreOptions(keystore.WithKeyGenerator(func(io.Reader) (*rsa.PrivateKey, error) {
		return testKeyVal, nil
	}))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
