package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/hush/internal/ui"
	"github.com/PolarWolf314/hush/internal/workflows"
)

func init() {
	addIOFlags(decryptCmd)
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt [envelope]",
	Short: "Decrypt an envelope with your private key",
	Long: `Decrypts a base64 envelope produced by hush encrypt.

The envelope is taken from the arguments, from stdin when piped (or with
--stdin), or from the clipboard with --from-clipboard. Surrounding whitespace
and missing trailing '=' characters are tolerated.

The decrypted text is written exactly as it was encrypted. A trailing newline
is only added when printing to a terminal.

A wrong key and a tampered envelope are reported with the same message.

Examples:
  hush decrypt AAIB...==
  pbpaste | hush decrypt
  hush decrypt --from-clipboard --to-clipboard`,
	RunE: runDecrypt,
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting decrypt command")

	encoded, err := readInput(cmd, args)
	if err != nil {
		return fail(cmd, err)
	}

	result, err := workflows.Decrypt(cmd.Context(), workflows.DecryptOptions{
		KeyOptions: keyOptions(),
		Encoded:    encoded,
	})
	if err != nil {
		// Decryption failures are logged without detail, like they are shown.
		Logger.Errorf("Decrypt failed: %v", err)
		return fail(cmd, err)
	}

	if err := writeOutput(cmd, result.Text, false); err != nil {
		return fail(cmd, err)
	}
	if useClipboardOutput(cmd) {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Ok("Decrypted text copied to the clipboard"))
	}

	Logger.Infof("Decrypt command completed successfully")
	return nil
}
