package utils

import (
	"fmt"
	"io"
	"os"
)

// ReadAllFrom reads r to EOF. Empty input is valid and returns an empty slice.
func ReadAllFrom(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// StdinIsPiped reports whether stdin is connected to a pipe or file rather than a terminal.
func StdinIsPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}
