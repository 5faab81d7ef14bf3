package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/hush/internal/configs"
	kerrors "github.com/PolarWolf314/hush/internal/errors"
	"github.com/PolarWolf314/hush/internal/ui"
	"github.com/PolarWolf314/hush/internal/utils"
)

// reportedError wraps an error whose message the command already printed.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// Reported reports whether err was already shown to the user, so main only
// needs to set the exit status.
func Reported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// startSpinner creates and starts a spinner with the given message when not
// in verbose or debug mode and stderr is a terminal. The spinner draws on
// stderr; its final message is written to out by the returned cleanup.
//
// The cleanup may be called more than once; only the first call has an effect.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, out io.Writer) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	animate := !verbose && !debug && utils.IsTerminal(os.Stderr)
	if animate {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("%s", message)
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			if animate {
				log.SetOutput(os.Stderr)
			}

			finalMsg := ""
			if s.FinalMSG != "" {
				finalMsg = ui.EnsureNewline(s.FinalMSG)
				// Clear FinalMSG so s.Stop() doesn't print it.
				s.FinalMSG = ""
			}

			if animate {
				s.Stop()
			}

			if finalMsg != "" {
				fmt.Fprint(out, finalMsg)
			}
		})
	}

	return s, cleanup
}

var (
	fromStdin     bool
	fromClipboard bool
	toClipboard   bool
)

// addIOFlags registers the input and output selection flags shared by
// encrypt and decrypt.
func addIOFlags(c *cobra.Command) {
	c.Flags().BoolVar(&fromStdin, "stdin", false, "read input from stdin")
	c.Flags().BoolVar(&fromClipboard, "from-clipboard", false, "read input from the clipboard")
	c.Flags().BoolVar(&toClipboard, "to-clipboard", false, "write output to the clipboard instead of stdout")
	c.MarkFlagsMutuallyExclusive("stdin", "from-clipboard")
}

func resetIOFlagState() {
	fromStdin = false
	fromClipboard = false
	toClipboard = false
}

// readInput returns the text a command operates on, from the clipboard,
// the arguments, or stdin, in that order of preference.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if fromClipboard {
		if len(args) > 0 {
			return "", errors.New("arguments cannot be combined with --from-clipboard")
		}
		if clipboard.Unsupported {
			return "", kerrors.ErrClipboardUnavailable
		}
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("%w: %w", kerrors.ErrClipboardUnavailable, err)
		}
		Logger.Debugf("Read %d bytes from the clipboard", len(text))
		return text, nil
	}

	if len(args) > 0 {
		if fromStdin {
			return "", errors.New("arguments cannot be combined with --stdin")
		}
		return strings.Join(args, " "), nil
	}

	if fromStdin || utils.StdinIsPiped() {
		data, err := utils.ReadAllFrom(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		Logger.Debugf("Read %d bytes from stdin", len(data))
		return string(data), nil
	}

	return "", kerrors.ErrNoInput
}

// useClipboardOutput reports whether results go to the clipboard, either by
// flag or by the [output] clipboard setting.
func useClipboardOutput(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("to-clipboard") {
		return toClipboard
	}
	return configs.GlobalUserConfig != nil && configs.GlobalUserConfig.Output.Clipboard
}

// writeOutput prints text to stdout, or copies it to the clipboard. A
// trailing newline is added when newline is set or stdout is a terminal, so
// piped output is otherwise exactly text.
func writeOutput(cmd *cobra.Command, text string, newline bool) error {
	if !useClipboardOutput(cmd) {
		out := cmd.OutOrStdout()
		if f, ok := out.(*os.File); newline || (ok && utils.IsTerminal(f)) {
			text = ui.EnsureNewline(text)
		}
		_, err := fmt.Fprint(out, text)
		return err
	}

	if clipboard.Unsupported {
		return kerrors.ErrClipboardUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %w", kerrors.ErrClipboardUnavailable, err)
	}
	return nil
}

// formatError turns a workflow error into the message shown to the user.
// Both kinds of decryption failure produce exactly the same text.
func formatError(err error) string {
	switch {
	case kerrors.IsDecryptFailure(err):
		return ui.Fail("decryption failed")

	case errors.Is(err, kerrors.ErrMalformedEnvelope):
		return ui.Fail("Input is not a valid hush envelope") + "\n" +
			ui.Hint("Check that the whole string was copied")

	case errors.Is(err, kerrors.ErrKeyLoad):
		return ui.Fail("Could not load your key pair") + "\n" +
			ui.Error.Sprint("Error: ") + err.Error() + "\n" +
			ui.Hint("Run "+ui.Code.Sprint("hush keys init")+" to create a key pair")

	case errors.Is(err, kerrors.ErrKeyGeneration):
		return ui.Fail("Could not create a key pair") + "\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrEncryption):
		return ui.Fail("Encryption failed") + "\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrInvalidConfig):
		return ui.Fail("Could not read your config file") + "\n" +
			ui.Error.Sprint("Error: ") + err.Error() + "\n" +
			ui.Hint("Fix or remove the file, then check it with "+ui.Code.Sprint("hush config show"))

	case errors.Is(err, kerrors.ErrNoInput):
		return ui.Fail("No input provided") + "\n" +
			ui.Hint("Pass text as arguments, pipe it on stdin, or use "+ui.Flag.Sprint("--from-clipboard"))

	case errors.Is(err, kerrors.ErrClipboardUnavailable):
		return ui.Fail("The clipboard is not available on this system") + "\n" +
			ui.Hint("Use stdin and stdout instead")

	default:
		return ui.Fail(err.Error())
	}
}

// fail prints the user-facing message for err on stderr and marks it as reported.
func fail(cmd *cobra.Command, err error) error {
	fmt.Fprint(cmd.ErrOrStderr(), ui.EnsureNewline(formatError(err)))
	return reportedError{err}
}
