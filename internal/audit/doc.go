// Package audit records what hush did, never what it handled.
//
// Each encrypt, decrypt, key initialization and regeneration appends one
// JSON object to audit.jsonl in the hush config directory:
//
//	{"id":"…","ts":"2026-01-02T03:04:05.000000Z","user":"alice","op":"decrypt",
//	 "status":"failed","key_fingerprint":"SHA256:…","input_bytes":732,
//	 "error":"decryption failed"}
//
// Entries hold byte counts and the key fingerprint only. Plaintext,
// envelopes and key material are never written. Failed decryptions record the
// same uniform message the user sees.
//
// Logging is best-effort and can be switched off with
//
//	[audit]
//	disabled = true
//
// in config.toml. ReadEntries skips malformed lines so that a partial write
// does not hide the rest of the log.
package audit
