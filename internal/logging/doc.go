// Package logger provides leveled diagnostic output for hush commands.
//
// # Verbosity Levels
//
//   - --verbose: shows info and warning messages
//   - --debug: shows everything, including errors as they are wrapped
//
// Without flags only WarnfAlways is printed.
//
// All output goes to stderr. Stdout is reserved for the text a command
// produces, so `hush encrypt < note.txt > note.enc` stays clean even with
// --debug.
//
// Loggers are plain values:
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Sealed envelope of %d bytes", n)
//
// Never pass plaintext, session keys or private key material to a Logger.
package logger
