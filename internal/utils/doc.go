// Package utils provides small helpers shared by the hush commands.
//
//   - GetUsername: the current system user, recorded in audit entries
//   - ReadAllFrom, StdinIsPiped: reading text to transform
//   - IsTerminal, ReadPassphrase: terminal detection and hidden input
//   - FormatPaths: readable lists of file paths, such as archived keys
package utils
