// Package envelope defines the binary layout of an encrypted message and its
// text encoding.
//
// An envelope is a length-prefixed RSA-wrapped session key, the CBC IV and
// the ciphertext, always in that order. Text form is standard base64 with
// padding. Everything here is pure: no keys, no randomness, no I/O.
package envelope
