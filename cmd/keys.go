package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	kerrors "github.com/PolarWolf314/hush/internal/errors"
	"github.com/PolarWolf314/hush/internal/ui"
	"github.com/PolarWolf314/hush/internal/utils"
	"github.com/PolarWolf314/hush/internal/workflows"
)

var regenerateForce bool

// KeysCmd groups the key pair management commands.
var KeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage your key pair",
	Long: `Provides commands to create, inspect and replace the RSA key pair hush
encrypts with.

Examples:
  hush keys init
  hush keys show
  hush keys regenerate --force`,
}

func init() {
	keysRegenerateCmd.Flags().BoolVar(&regenerateForce, "force", false, "confirm replacing the current key pair")

	KeysCmd.AddCommand(keysInitCmd)
	KeysCmd.AddCommand(keysShowCmd)
	KeysCmd.AddCommand(keysRegenerateCmd)
}

func resetRegenerateCommandState() {
	regenerateForce = false
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a key pair if none exists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys init command")
		spinner, cleanup := startSpinner("Preparing key pair...", cmd.OutOrStdout())
		defer cleanup()

		result, err := workflows.InitKeys(cmd.Context(), keyOptions())
		if err != nil {
			cleanup()
			return fail(cmd, err)
		}

		if result.Generated {
			spinner.FinalMSG = ui.Ok(fmt.Sprintf("Generated a new %d-bit key pair", result.Bits)) + "\n" +
				formatKeyPaths(result) +
				ui.Hint("Back up your private key, anything encrypted with it is lost without it")
		} else {
			spinner.FinalMSG = ui.Ok("A key pair already exists") + "\n" + formatKeyPaths(result)
		}
		return nil
	},
}

var keysShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the location and fingerprint of your key pair",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys show command")

		result, err := workflows.ShowKeys(cmd.Context(), keyOptions())
		if err != nil {
			return fail(cmd, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, formatKeyPaths(result))
		fmt.Fprintf(out, "  Algorithm:    %s\n", result.Algorithm)
		fmt.Fprintf(out, "  Size:         %d bits\n", result.Bits)
		if result.Metadata == nil {
			fmt.Fprintf(out, "  Created:      %s\n", ui.Muted.Sprint("unknown"))
			return nil
		}

		created := result.Metadata.CreatedAt.Local().Format("2006-01-02 15:04:05") +
			" " + ui.Muted.Sprint(humanize.Time(result.Metadata.CreatedAt))
		if result.Metadata.CreatedBy != "" {
			created += " by " + result.Metadata.CreatedBy
		}
		fmt.Fprintf(out, "  Created:      %s\n", created)
		if result.Metadata.Fingerprint != result.Fingerprint {
			Logger.WarnfAlways("Key metadata describes a different key (%s), the key files take precedence", result.Metadata.Fingerprint)
		}
		return nil
	},
}

var keysRegenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Replace your key pair, archiving the old one",
	Long: `Generates a new key pair. The current key files are kept next to the new
ones with a .<timestamp>.bak suffix.

Text encrypted before regenerating can only be decrypted with the archived
private key, for example with:
  hush decrypt --key-name hush.<timestamp>.bak ...

This command refuses to run without --force.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys regenerate command")

		if !regenerateForce {
			err := kerrors.ErrRegenerateNotConfirmed
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Fail("Regenerating replaces the key pair used to decrypt your existing text")+"\n"+
				ui.Hint("Run "+ui.Code.Sprint("hush keys regenerate --force")+" to continue"))
			return reportedError{err}
		}

		spinner, cleanup := startSpinner("Generating new key pair...", cmd.OutOrStdout())
		defer cleanup()

		result, err := workflows.RegenerateKeys(cmd.Context(), workflows.RegenerateOptions{
			KeyOptions: keyOptions(),
			Force:      regenerateForce,
		})
		if err != nil {
			cleanup()
			return fail(cmd, err)
		}

		msg := ui.Ok(fmt.Sprintf("Generated a new %d-bit key pair", result.Bits)) + "\n" + formatKeyPaths(result)
		if len(result.Archived) > 0 {
			msg += ui.Hint("Previous keys were archived to:") + utils.FormatPaths(result.Archived)
		}
		spinner.FinalMSG = msg
		return nil
	},
}

func formatKeyPaths(result *workflows.KeysResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  Fingerprint:  %s\n", ui.Highlight.Sprint(result.Fingerprint))
	fmt.Fprintf(&b, "  Private key:  %s\n", ui.Path.Sprint(result.PrivateKeyPath))
	fmt.Fprintf(&b, "  Public key:   %s\n", ui.Path.Sprint(result.PublicKeyPath))
	return b.String()
}
