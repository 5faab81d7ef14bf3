// Package errors provides typed error values for hush.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Key errors: ErrKeyGeneration, ErrKeyLoad, ErrRegenerateNotConfirmed
//   - Envelope errors: ErrMalformedEnvelope
//   - Crypto errors: ErrEncryption, ErrKeyRecovery, ErrPadding
//   - Input errors: ErrNoInput, ErrClipboardUnavailable, ErrInvalidDateFormat
//   - Config errors: ErrInvalidConfig
//   - Audit errors: ErrNoAuditLog
//
// # Decryption failures
//
// ErrKeyRecovery (the RSA unwrap of the session key failed) and ErrPadding
// (the AES payload had invalid PKCS#7 padding) are separate values but share
// the message "decryption failed". They are returned bare, without the
// underlying cause, so the error surface does not reveal which stage failed.
// Presenters should use IsDecryptFailure and print one uniform message.
//
// # Usage
//
//	plaintext, err := crypt.Decrypt(encoded, priv)
//	switch {
//	case kerrors.Is(err, kerrors.ErrMalformedEnvelope):
//	    // input was truncated or not base64
//	case kerrors.IsDecryptFailure(err):
//	    // wrong key or tampered ciphertext
//	}
package errors
