// Package keystore generates, persists and loads hush's RSA key pair.
//
// # Layout
//
// A Store manages two files in one directory:
//
//   - <name>      PEM "RSA PRIVATE KEY" (PKCS#1), mode 0600
//   - <name>.pub  PEM "PUBLIC KEY" (PKIX), mode 0644
//
// The directory itself is created with mode 0700.
//
// # Creation
//
// EnsureKeyPair loads the pair when the private key exists. Otherwise it
// generates a KeyBits-bit key and writes both halves to temporary files,
// then hard-links them to their final names. os.Link fails if the target
// exists, so when two processes start at once only one publishes a key.
// The other one waits briefly for the public half to appear and loads the
// winner's pair.
//
// Existing keys are never rewritten. Corrupt or mismatched artifacts are
// reported as ErrKeyLoad and left on disk for the user to inspect.
// Regenerate is the only path that replaces a pair, and it archives the old
// files as <name>.<timestamp>.bak first.
//
// # Formats
//
// Besides PKCS#1, the private key loader accepts PKCS#8 and OpenSSH RSA
// keys, so an existing ~/.ssh/id_rsa can be pointed at. Encrypted OpenSSH
// keys need a WithPassphrase option; the CLI prompts on the terminal.
package keystore
