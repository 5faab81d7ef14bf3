package workflows

import (
	"context"

	"github.com/PolarWolf314/hush/internal/audit"
	"github.com/PolarWolf314/hush/internal/crypt"
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	KeyOptions

	// Text is the plaintext to encrypt. It may be empty.
	Text string
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	// Encoded is the base64 envelope.
	Encoded string

	// Keys describes the pair the text was encrypted for.
	Keys *KeysResult
}

// Encrypt seals opts.Text under the user's public key, generating the key
// pair on first use.
//
// Returns ErrKeyLoad or ErrKeyGeneration if no usable pair is available.
// Returns ErrEncryption if sealing fails.
func Encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keys, err := ensureKeys(opts.Store(), opts.Log)
	if err != nil {
		return nil, err
	}

	engine, err := crypt.NewEngine(keys.pair, opts.Log)
	if err != nil {
		return nil, err
	}

	entry := audit.NewEntry(audit.OpEncrypt)
	entry.KeyFingerprint = keys.Fingerprint
	entry.InputBytes = len(opts.Text)

	encoded, err := engine.EncryptText(opts.Text)
	if err != nil {
		entry.Fail(err.Error())
		audit.Log(entry)
		return nil, err
	}

	entry.OutputBytes = len(encoded)
	audit.Log(entry)

	return &EncryptResult{Encoded: encoded, Keys: keys}, nil
}
