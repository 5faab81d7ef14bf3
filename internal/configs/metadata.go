package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// KeyMetadata describes the key pair next to which it is stored. It is
// informational only; the key files are the source of truth.
type KeyMetadata struct {
	Fingerprint string    `toml:"fingerprint"`
	Algorithm   string    `toml:"algorithm"`
	Bits        int       `toml:"bits"`
	CreatedAt   time.Time `toml:"created_at"`
	CreatedBy   string    `toml:"created_by,omitempty"`
}

// LoadKeyMetadata reads metadata from path. It returns nil and no error if
// the file does not exist.
func LoadKeyMetadata(path string) (*KeyMetadata, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	metadata := &KeyMetadata{}
	if err := LoadTOML(path, metadata); err != nil {
		return nil, fmt.Errorf("failed to load key metadata: %w", err)
	}
	return metadata, nil
}

// SaveKeyMetadata writes metadata to path.
func SaveKeyMetadata(path string, metadata *KeyMetadata) error {
	if err := SaveTOML(path, metadata); err != nil {
		return fmt.Errorf("failed to save key metadata: %w", err)
	}
	return nil
}
