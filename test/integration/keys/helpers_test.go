package keys_test

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// captureStderr collects what fn writes to os.Stderr. The logger writes
// there directly rather than through the command's error stream.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, reader)
		done <- buf.String()
	}()

	original := os.Stderr
	os.Stderr = writer
	func() {
		defer func() {
			os.Stderr = original
			writer.Close()
		}()
		fn()
	}()
	return <-done
}
