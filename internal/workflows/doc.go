// Package workflows provides high-level orchestration for hush commands.
//
// Workflows coordinate the key store, the encryption engine, configuration
// and the audit log to implement complete user-facing features. Each workflow
// handles a single command's business logic, independent of CLI concerns like
// flag parsing, spinners, clipboard access and output formatting.
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// # Available Workflows
//
//   - Encrypt: seals text, generating the key pair on first use
//   - Decrypt: opens an envelope with the existing private key
//   - InitKeys, RegenerateKeys, ShowKeys: manage the key pair
//   - Log: reads and filters the audit log
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package. Decryption
// failures come back as ErrKeyRecovery or ErrPadding; the CLI collapses both
// into a single message with errors.IsDecryptFailure:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if kerrors.IsDecryptFailure(err) {
//	    // print "decryption failed" and nothing more
//	}
//
// All workflow functions accept a context.Context as their first parameter
// and return early if it is already cancelled.
package workflows
