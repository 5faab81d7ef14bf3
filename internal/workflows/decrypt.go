package workflows

import (
	"context"

	"github.com/PolarWolf314/hush/internal/audit"
	"github.com/PolarWolf314/hush/internal/crypt"
	"github.com/PolarWolf314/hush/internal/keystore"
)

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	KeyOptions

	// Encoded is the base64 envelope to decrypt.
	Encoded string
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	Text string
	Keys *KeysResult
}

// Decrypt opens an envelope with the user's private key. Unlike Encrypt it
// never generates a key pair, since a new pair cannot open existing envelopes.
//
// Returns ErrKeyLoad if no usable pair is available.
// Returns ErrMalformedEnvelope if the input is not a well-formed envelope.
// Returns ErrKeyRecovery or ErrPadding if decryption fails; callers should
// present both with the same message.
func Decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Only the private half is needed, so archived private keys can be used
	// with --key-name even though their public half was archived separately.
	store := opts.Store()
	priv, err := store.LoadPrivateKey()
	if err != nil {
		return nil, err
	}

	keys, err := describeKeys(store, &keystore.KeyPair{Private: priv, Public: &priv.PublicKey})
	if err != nil {
		return nil, err
	}

	engine, err := crypt.NewEngine(keys.pair, opts.Log)
	if err != nil {
		return nil, err
	}

	entry := audit.NewEntry(audit.OpDecrypt)
	entry.KeyFingerprint = keys.Fingerprint
	entry.InputBytes = len(opts.Encoded)

	text, err := engine.DecryptText(opts.Encoded)
	if err != nil {
		entry.Fail(err.Error())
		audit.Log(entry)
		return nil, err
	}

	entry.OutputBytes = len(text)
	audit.Log(entry)

	return &DecryptResult{Text: text, Keys: keys}, nil
}
