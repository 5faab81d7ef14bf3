// Package crypt implements hush's hybrid public-key encryption.
//
// Every call to Encrypt draws a fresh 256-bit AES session key and 128-bit IV,
// encrypts the PKCS#7-padded plaintext with AES-256-CBC, and wraps the
// session key with RSA-OAEP (SHA-256, MGF1-SHA-256) under the recipient's
// public key. The result is laid out as an envelope.Envelope and returned in
// base64.
//
// Decrypt reverses this. Length problems are caught by the envelope parser
// before any cryptography runs. After that only two outcomes are reported,
// ErrKeyRecovery and ErrPadding, and neither says why it happened.
//
// The ciphertext carries no MAC. A modified ciphertext is usually rejected by
// the padding check, but it can also decrypt to different bytes.
//
// # Usage
//
//	pair, err := store.EnsureKeyPair()
//	engine, err := crypt.NewEngine(pair, log)
//	encoded, err := engine.EncryptText("hello")
//	text, err := engine.DecryptText(encoded)
package crypt
