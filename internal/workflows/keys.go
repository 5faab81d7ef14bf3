package workflows

import (
	"context"
	"time"

	"github.com/PolarWolf314/hush/internal/audit"
	"github.com/PolarWolf314/hush/internal/configs"
	"github.com/PolarWolf314/hush/internal/crypt"
	kerrors "github.com/PolarWolf314/hush/internal/errors"
	"github.com/PolarWolf314/hush/internal/keystore"
	logger "github.com/PolarWolf314/hush/internal/logging"
)

// KeyOptions locates the key pair a workflow operates on.
type KeyOptions struct {
	// Dir is the keys directory. If empty, the configured directory is used.
	Dir string

	// Name is the private key file name. If empty, the configured name is used.
	Name string

	// Log receives diagnostics. The zero value only prints security warnings.
	Log logger.Logger

	// StoreOptions are passed to keystore.New.
	StoreOptions []keystore.Option
}

// Store returns the key store described by the options.
func (o KeyOptions) Store() *keystore.Store {
	dir, name := o.Dir, o.Name
	if settings := configs.UserHushSettings; settings != nil {
		if dir == "" {
			dir = settings.KeysPath
		}
		if name == "" {
			name = settings.KeyName
		}
	}
	if name == "" {
		name = configs.DefaultKeyName
	}

	opts := append([]keystore.Option{keystore.WithKeyGenerator(crypt.DefaultScheme.GenerateKey)}, o.StoreOptions...)
	return keystore.New(dir, name, o.Log, opts...)
}

// RegenerateOptions configures the regenerate workflow.
type RegenerateOptions struct {
	KeyOptions

	// Force confirms that the existing pair should be replaced.
	Force bool
}

// KeysResult describes a key pair on disk.
type KeysResult struct {
	PrivateKeyPath string
	PublicKeyPath  string
	Fingerprint    string
	Algorithm      string
	Bits           int

	// Generated is true when this call created the pair.
	Generated bool

	// Metadata is nil when no metadata file exists next to the keys.
	Metadata *configs.KeyMetadata

	// Archived lists the .bak files written by RegenerateKeys.
	Archived []string

	pair *keystore.KeyPair
}

// InitKeys ensures a key pair exists, generating one if needed.
//
// Returns ErrKeyLoad if existing key files are unreadable or inconsistent.
// Returns ErrKeyGeneration if a new pair could not be generated or stored.
func InitKeys(ctx context.Context, opts KeyOptions) (*KeysResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ensureKeys(opts.Store(), opts.Log)
}

// RegenerateKeys archives the existing key pair and generates a new one.
// Anything encrypted under the old pair can only be decrypted with the
// archived private key afterwards.
//
// Returns ErrRegenerateNotConfirmed unless opts.Force is set.
func RegenerateKeys(ctx context.Context, opts RegenerateOptions) (*KeysResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !opts.Force {
		return nil, kerrors.ErrRegenerateNotConfirmed
	}

	store := opts.Store()
	entry := audit.NewEntry(audit.OpRegenerate)

	pair, archived, err := store.Regenerate()
	if err != nil {
		entry.Fail(err.Error())
		audit.Log(entry)
		return nil, err
	}

	result, err := describeKeys(store, pair)
	if err != nil {
		return nil, err
	}
	result.Metadata = recordMetadata(store, result, opts.Log)
	result.Archived = archived

	entry.KeyFingerprint = result.Fingerprint
	audit.Log(entry)
	return result, nil
}

// ShowKeys describes the existing key pair without generating one.
//
// Returns ErrKeyLoad if no key pair exists or it cannot be loaded.
func ShowKeys(ctx context.Context, opts KeyOptions) (*KeysResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store := opts.Store()
	pair, err := store.LoadKeyPair()
	if err != nil {
		return nil, err
	}

	result, err := describeKeys(store, pair)
	if err != nil {
		return nil, err
	}

	metadata, err := configs.LoadKeyMetadata(MetadataPath(store))
	if err != nil {
		opts.Log.Warnf("Ignoring unreadable key metadata: %v", err)
	}
	result.Metadata = metadata
	return result, nil
}

// ensureKeys loads or creates the pair and records metadata and an audit
// entry when it was created.
func ensureKeys(store *keystore.Store, log logger.Logger) (*KeysResult, error) {
	pair, err := store.EnsureKeyPair()
	if err != nil {
		if kerrors.Is(err, kerrors.ErrKeyGeneration) {
			entry := audit.NewEntry(audit.OpKeysInit)
			entry.Fail(err.Error())
			audit.Log(entry)
		}
		return nil, err
	}

	result, err := describeKeys(store, pair)
	if err != nil {
		return nil, err
	}

	if !pair.Generated {
		metadata, err := configs.LoadKeyMetadata(MetadataPath(store))
		if err != nil {
			log.Debugf("Ignoring unreadable key metadata: %v", err)
		}
		result.Metadata = metadata
		return result, nil
	}

	log.Infof("Generated new key pair %s", result.Fingerprint)
	result.Metadata = recordMetadata(store, result, log)

	entry := audit.NewEntry(audit.OpKeysInit)
	entry.KeyFingerprint = result.Fingerprint
	audit.Log(entry)
	return result, nil
}

func describeKeys(store *keystore.Store, pair *keystore.KeyPair) (*KeysResult, error) {
	fingerprint, err := pair.Fingerprint()
	if err != nil {
		return nil, err
	}
	return &KeysResult{
		PrivateKeyPath: store.PrivateKeyPath(),
		PublicKeyPath:  store.PublicKeyPath(),
		Fingerprint:    fingerprint,
		Algorithm:      crypt.DefaultScheme.Name(),
		Bits:           pair.Public.N.BitLen(),
		Generated:      pair.Generated,
		pair:           pair,
	}, nil
}

// recordMetadata writes the metadata file for a freshly generated pair.
// The key files are the source of truth, so failures are only logged.
func recordMetadata(store *keystore.Store, result *KeysResult, log logger.Logger) *configs.KeyMetadata {
	metadata := &configs.KeyMetadata{
		Fingerprint: result.Fingerprint,
		Algorithm:   result.Algorithm,
		Bits:        result.Bits,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	if configs.UserHushSettings != nil {
		metadata.CreatedBy = configs.UserHushSettings.Username
	}

	if err := configs.SaveKeyMetadata(MetadataPath(store), metadata); err != nil {
		log.Warnf("Could not write key metadata: %v", err)
		return nil
	}
	return metadata
}

// MetadataPath returns where the metadata of store's key pair is kept.
func MetadataPath(store *keystore.Store) string {
	return store.PrivateKeyPath() + ".metadata.toml"
}
