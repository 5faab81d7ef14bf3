package keystore

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/cenkalti/backoff"

	kerrors "github.com/PolarWolf314/hush/internal/errors"
	logger "github.com/PolarWolf314/hush/internal/logging"
)

const (
	privateKeyPerm = 0600
	publicKeyPerm  = 0644
	keysDirPerm    = 0700

	archiveTimeFormat = "20060102T150405Z"
	maxArchiveSuffix  = 100
)

// GenerateFunc creates a new private key from the given randomness source.
type GenerateFunc func(io.Reader) (*rsa.PrivateKey, error)

// Store owns the on-disk key pair: <dir>/<name> holds the private key and
// <dir>/<name>.pub the public key.
type Store struct {
	dir        string
	name       string
	log        logger.Logger
	generate   GenerateFunc
	rand       io.Reader
	passphrase PassphraseFunc
	now        func() time.Time

	// publishWait is how long a process that lost the creation race waits
	// for the winner to finish writing the public key.
	publishWait time.Duration
	publishPoll time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithKeyGenerator replaces GenerateKey as the source of new key pairs.
func WithKeyGenerator(fn GenerateFunc) Option {
	return func(s *Store) {
		s.generate = fn
	}
}

// WithRandom replaces crypto/rand.Reader as the randomness source for key generation.
func WithRandom(r io.Reader) Option {
	return func(s *Store) {
		s.rand = r
	}
}

// WithPassphrase sets the source of passphrases for encrypted OpenSSH
// private keys. Without it such keys fail to load with ErrPassphraseProtected.
func WithPassphrase(fn PassphraseFunc) Option {
	return func(s *Store) {
		s.passphrase = fn
	}
}

// New returns a Store for the key pair named name inside dir.
func New(dir, name string, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		dir:         dir,
		name:        name,
		log:         log,
		generate:    GenerateKey,
		rand:        rand.Reader,
		now:         time.Now,
		publishWait: 2 * time.Second,
		publishPoll: 25 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory holding the key artifacts.
func (s *Store) Dir() string {
	return s.dir
}

// PrivateKeyPath returns the path of the private key artifact.
func (s *Store) PrivateKeyPath() string {
	return filepath.Join(s.dir, s.name)
}

// PublicKeyPath returns the path of the public key artifact.
func (s *Store) PublicKeyPath() string {
	return filepath.Join(s.dir, s.name+".pub")
}

// Exists reports whether the private key artifact is present.
func (s *Store) Exists() (bool, error) {
	return fileExists(s.PrivateKeyPath())
}

// LoadPrivateKey reads and parses the private key artifact.
func (s *Store) LoadPrivateKey() (*rsa.PrivateKey, error) {
	path := s.PrivateKeyPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading private key at %s: %w", kerrors.ErrKeyLoad, path, err)
	}

	key, err := parsePrivateKey(data, s.passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing private key at %s: %w", kerrors.ErrKeyLoad, path, err)
	}

	s.checkPermissions(path)
	return key, nil
}

// LoadPublicKey reads and parses the public key artifact.
func (s *Store) LoadPublicKey() (*rsa.PublicKey, error) {
	path := s.PublicKeyPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading public key at %s: %w", kerrors.ErrKeyLoad, path, err)
	}

	pub, err := parsePublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing public key at %s: %w", kerrors.ErrKeyLoad, path, err)
	}
	return pub, nil
}

// LoadKeyPair loads both artifacts and checks that they belong together.
func (s *Store) LoadKeyPair() (*KeyPair, error) {
	priv, err := s.LoadPrivateKey()
	if err != nil {
		return nil, err
	}
	pub, err := s.LoadPublicKey()
	if err != nil {
		return nil, err
	}
	if !priv.PublicKey.Equal(pub) {
		return nil, fmt.Errorf("%w: public key at %s does not match private key at %s",
			kerrors.ErrKeyLoad, s.PublicKeyPath(), s.PrivateKeyPath())
	}

	s.log.Debugf("Loaded %d-bit key pair from %s", priv.N.BitLen(), s.dir)
	return &KeyPair{Private: priv, Public: pub}, nil
}

// EnsureKeyPair returns the persisted key pair, generating and persisting a
// new one if no private key exists yet.
//
// An existing key is never overwritten or repaired: corrupt artifacts yield
// ErrKeyLoad. When several processes race to create the pair, exactly one
// publishes it and the others load the winner's pair.
func (s *Store) EnsureKeyPair() (*KeyPair, error) {
	privExists, err := fileExists(s.PrivateKeyPath())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrKeyLoad, err)
	}
	if privExists {
		return s.waitForKeyPair()
	}

	pubExists, err := fileExists(s.PublicKeyPath())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrKeyLoad, err)
	}
	if pubExists {
		// Another process may have published both halves since the first check.
		if privExists, _ = fileExists(s.PrivateKeyPath()); privExists {
			return s.waitForKeyPair()
		}
		return nil, fmt.Errorf("%w: public key at %s has no private key at %s; remove it or regenerate explicitly",
			kerrors.ErrKeyLoad, s.PublicKeyPath(), s.PrivateKeyPath())
	}

	return s.create()
}

// Regenerate archives any existing artifacts as .bak files and creates a new
// key pair. It must only be called on explicit user instruction. It returns
// the paths of the archived files.
func (s *Store) Regenerate() (*KeyPair, []string, error) {
	paths := []string{s.PrivateKeyPath(), s.PublicKeyPath()}
	stamp, err := archiveStamp(s.now().UTC().Format(archiveTimeFormat), paths)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", kerrors.ErrKeyGeneration, err)
	}
	var archived []string
	for _, path := range paths {
		backup, err := archive(path, stamp)
		if err != nil {
			return nil, archived, fmt.Errorf("%w: archiving %s: %w", kerrors.ErrKeyGeneration, path, err)
		}
		if backup != "" {
			archived = append(archived, backup)
		}
	}
	s.log.Infof("Archived previous key pair with suffix .%s.bak", stamp)

	pair, err := s.create()
	return pair, archived, err
}

// create generates a pair and publishes it with exclusive hard links so that
// readers only ever see complete files.
func (s *Store) create() (*KeyPair, error) {
	if err := os.MkdirAll(s.dir, keysDirPerm); err != nil {
		return nil, fmt.Errorf("%w: creating keys directory %s: %w", kerrors.ErrKeyGeneration, s.dir, err)
	}

	s.log.Infof("Generating new RSA key pair in %s", s.dir)
	key, err := s.generate(s.rand)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrKeyGeneration, err)
	}

	pubPEM, err := encodePublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrKeyGeneration, err)
	}

	privTmp, err := s.writeTemp(encodePrivateKey(key), privateKeyPerm)
	if err != nil {
		return nil, fmt.Errorf("%w: writing private key: %w", kerrors.ErrKeyGeneration, err)
	}
	defer os.Remove(privTmp)

	pubTmp, err := s.writeTemp(pubPEM, publicKeyPerm)
	if err != nil {
		return nil, fmt.Errorf("%w: writing public key: %w", kerrors.ErrKeyGeneration, err)
	}
	defer os.Remove(pubTmp)

	if err := os.Link(privTmp, s.PrivateKeyPath()); err != nil {
		if errors.Is(err, fs.ErrExist) {
			s.log.Debugf("Another process created %s first, loading its key pair", s.PrivateKeyPath())
			return s.waitForKeyPair()
		}
		return nil, fmt.Errorf("%w: publishing private key: %w", kerrors.ErrKeyGeneration, err)
	}

	if err := os.Link(pubTmp, s.PublicKeyPath()); err != nil {
		// Roll back so the next run does not find a private key without its public half.
		_ = os.Remove(s.PrivateKeyPath())
		return nil, fmt.Errorf("%w: publishing public key: %w", kerrors.ErrKeyGeneration, err)
	}

	return &KeyPair{Private: key, Public: &key.PublicKey, Generated: true}, nil
}

// waitForKeyPair loads the pair, retrying while only the public key is
// missing, which is what a reader sees between the two links in create.
func (s *Store) waitForKeyPair() (*KeyPair, error) {
	var pair *KeyPair
	retries := uint64(s.publishWait / s.publishPoll)

	load := func() error {
		loaded, err := s.LoadKeyPair()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return backoff.Permanent(err)
		}
		pair = loaded
		return nil
	}

	if err := backoff.Retry(load, backoff.WithMaxRetries(backoff.NewConstantBackOff(s.publishPoll), retries)); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *Store) writeTemp(data []byte, perm os.FileMode) (path string, err error) {
	f, err := os.CreateTemp(s.dir, "."+s.name+".tmp-*")
	if err != nil {
		return "", err
	}
	path = f.Name()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := f.Chmod(perm); err != nil && runtime.GOOS != "windows" {
		return path, err
	}
	if _, err := f.Write(data); err != nil {
		return path, err
	}
	return path, f.Sync()
}

// checkPermissions warns when the private key is readable by others.
func (s *Store) checkPermissions(path string) {
	if runtime.GOOS == "windows" {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		s.log.WarnfAlways("Private key file has overly permissive permissions (%o), consider running 'chmod 600 %s'", perm, path)
	}
}

// archive moves path to path.<stamp>.bak, failing if the archive name is
// taken. It returns the archive path, or "" if path did not exist.
// archiveStamp returns the first suffix, starting at base and continuing with
// base-1, base-2 and so on, for which none of the paths has a backup yet.
func archiveStamp(base string, paths []string) (string, error) {
	for n := 0; n < maxArchiveSuffix; n++ {
		stamp := base
		if n > 0 {
			stamp = fmt.Sprintf("%s-%d", base, n)
		}
		taken := false
		for _, path := range paths {
			exists, err := fileExists(path + "." + stamp + ".bak")
			if err != nil {
				return "", err
			}
			taken = taken || exists
		}
		if !taken {
			return stamp, nil
		}
	}
	return "", fmt.Errorf("too many archives with suffix .%s", base)
}

func archive(path, stamp string) (string, error) {
	exists, err := fileExists(path)
	if err != nil || !exists {
		return "", err
	}
	backup := path + "." + stamp + ".bak"
	if err := os.Link(path, backup); err != nil {
		return "", err
	}
	return backup, os.Remove(path)
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
