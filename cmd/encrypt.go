package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/hush/internal/ui"
	"github.com/PolarWolf314/hush/internal/workflows"
)

func init() {
	addIOFlags(encryptCmd)
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt [text...]",
	Short: "Encrypt text with your public key",
	Long: `Encrypts text into a base64 envelope that only your private key can open.

Text is taken from the arguments, from stdin when piped (or with --stdin), or
from the clipboard with --from-clipboard. Stdin is encrypted byte for byte,
including any trailing newline.

The key pair is generated on first use, which can take a few seconds.

Examples:
  hush encrypt "my database password"
  cat token.txt | hush encrypt
  hush encrypt --from-clipboard --to-clipboard`,
	RunE: runEncrypt,
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting encrypt command")

	text, err := readInput(cmd, args)
	if err != nil {
		return fail(cmd, err)
	}

	spinner, cleanup := startSpinner("Encrypting...", cmd.ErrOrStderr())
	result, err := workflows.Encrypt(cmd.Context(), workflows.EncryptOptions{
		KeyOptions: keyOptions(),
		Text:       text,
	})
	if err != nil {
		Logger.Errorf("Encrypt failed: %v", err)
		spinner.FinalMSG = formatError(err)
		cleanup()
		return reportedError{err}
	}

	if result.Keys.Generated {
		spinner.FinalMSG = ui.Ok(fmt.Sprintf("Generated a new %d-bit key pair %s", result.Keys.Bits, ui.Highlight.Sprint(result.Keys.Fingerprint))) + "\n" +
			ui.Hint("Private key stored at "+ui.Path.Sprint(result.Keys.PrivateKeyPath)+", keep it safe")
	}
	cleanup()

	if err := writeOutput(cmd, result.Encoded, true); err != nil {
		return fail(cmd, err)
	}
	if useClipboardOutput(cmd) {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Ok("Encrypted text copied to the clipboard"))
	}

	Logger.Infof("Encrypt command completed successfully")
	return nil
}
