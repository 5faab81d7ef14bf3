// Package shared contains testing utilities shared between integration tests.
// This file provides common functions for setting up test environments and
// running the hush command tree with captured output.
package shared

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/hush/cmd"
	"github.com/PolarWolf314/hush/internal/configs"
	"github.com/PolarWolf314/hush/internal/keystore"
	logger "github.com/PolarWolf314/hush/internal/logging"
)

// SetupTestEnvironment points hush at a temporary user directory and
// restores the original settings when the test ends. It returns the keys
// directory.
func SetupTestEnvironment(t *testing.T) string {
	t.Helper()
	tempUserDir := t.TempDir()

	originalSettings := configs.UserHushSettings
	originalConfig := configs.GlobalUserConfig
	t.Cleanup(func() {
		configs.UserHushSettings = originalSettings
		configs.GlobalUserConfig = originalConfig
		cmd.ResetGlobalState()
		cmd.SetLogger(logger.Logger{})
	})

	configs.UserHushSettings = &configs.UserSettings{
		KeysPath:    filepath.Join(tempUserDir, "keys"),
		ConfigsPath: filepath.Join(tempUserDir, "config"),
		KeyName:     "hush",
		Username:    "testuser",
	}
	configs.GlobalUserConfig = &configs.UserConfig{}

	return configs.UserHushSettings.KeysPath
}

// Result holds the captured streams of one command run.
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// RunHush executes the real hush command tree with args, feeding stdin and
// capturing stdout and stderr separately. Key stores use opts, which lets
// tests substitute a faster key generator.
func RunHush(t *testing.T, stdin string, opts []keystore.Option, args ...string) Result {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd.ResetGlobalState()
	cmd.SetKeyStoreOptions(opts...)

	root := cmd.GetHushCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	defer func() {
		root.SetOut(nil)
		root.SetErr(nil)
		root.SetIn(nil)
		root.SetArgs(nil)
	}()

	err := root.Execute()
	return Result{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// MustRunHush is RunHush that fails the test on error.
func MustRunHush(t *testing.T, stdin string, opts []keystore.Option, args ...string) Result {
	t.Helper()
	result := RunHush(t, stdin, opts, args...)
	if result.Err != nil {
		t.Fatalf("hush %s failed: %v\nstdout: %s\nstderr: %s",
			strings.Join(args, " "), result.Err, result.Stdout, result.Stderr)
	}
	return result
}
