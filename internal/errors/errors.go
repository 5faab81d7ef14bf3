package errors

import "errors"

// Key errors indicate problems with the persisted RSA key pair.
var (
	// ErrKeyGeneration indicates a new key pair could not be generated or persisted.
	ErrKeyGeneration = errors.New("failed to generate key pair")

	// ErrKeyLoad indicates a persisted key is missing or structurally invalid.
	ErrKeyLoad = errors.New("failed to load key")

	// ErrRegenerateNotConfirmed indicates regeneration was requested without --force.
	ErrRegenerateNotConfirmed = errors.New("key regeneration requires explicit confirmation")
)

// Envelope errors indicate the encoded text is not a well-formed envelope.
// They are raised before any cryptographic operation runs.
var (
	// ErrMalformedEnvelope indicates the envelope could not be decoded or its lengths are inconsistent.
	ErrMalformedEnvelope = errors.New("malformed envelope")
)

// Cryptographic errors indicate failures during encryption or decryption.
//
// ErrKeyRecovery and ErrPadding are distinct values so that internal code can
// tell them apart, but they carry the same message and are never wrapped with
// a cause.
var (
	// ErrEncryption indicates the plaintext could not be sealed.
	ErrEncryption = errors.New("encryption failed")

	// ErrKeyRecovery indicates the session key could not be unwrapped.
	ErrKeyRecovery = errors.New("decryption failed")

	// ErrPadding indicates the decrypted payload had invalid padding.
	ErrPadding = errors.New("decryption failed")
)

// Input errors indicate problems with what the user handed to the CLI.
var (
	// ErrNoInput indicates no text was provided on the command line, stdin or clipboard.
	ErrNoInput = errors.New("no input provided")

	// ErrClipboardUnavailable indicates the system clipboard could not be used.
	ErrClipboardUnavailable = errors.New("clipboard is not available")

	// ErrInvalidDateFormat indicates a date filter was not in YYYY-MM-DD format.
	ErrInvalidDateFormat = errors.New("invalid date format")
)

// Config errors indicate problems with the optional config.toml.
var (
	// ErrInvalidConfig indicates config.toml exists but could not be parsed.
	ErrInvalidConfig = errors.New("invalid config file")
)

// Audit errors indicate problems reading the audit log.
var (
	// ErrNoAuditLog indicates no audit log has been written yet.
	ErrNoAuditLog = errors.New("no audit log found")
)

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsDecryptFailure reports whether err is one of the cryptographic decryption
// failures that presenters must collapse into a single message.
func IsDecryptFailure(err error) bool {
	return errors.Is(err, ErrKeyRecovery) || errors.Is(err, ErrPadding)
}
