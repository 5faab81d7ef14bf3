package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/hush/internal/configs"
	"github.com/PolarWolf314/hush/internal/ui"
	"github.com/PolarWolf314/hush/internal/workflows"
)

// ConfigCmd groups the configuration commands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect hush configuration",
	Long: `Shows where hush keeps its keys and configuration.

Settings are resolved in this order, later entries winning:
  1. XDG defaults
  2. config.toml in the config directory
  3. HUSH_KEYS_DIR, HUSH_KEY_NAME and HUSH_CONFIG_DIR
  4. --keys-dir and --key-name

Examples:
  hush config show
  hush config init`,
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := configs.UserHushSettings
		store := keyOptions().Store()

		configFile := settings.ConfigFilePath()
		if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
			configFile += " " + ui.Muted.Sprint("not created")
		} else if configErr != nil {
			configFile += " " + ui.Error.Sprint("invalid, defaults in use")
		}

		clipboard := false
		auditOn := true
		if cfg := configs.GlobalUserConfig; cfg != nil {
			clipboard = cfg.Output.Clipboard
			auditOn = !cfg.Audit.Disabled
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "  Config file:  %s\n", ui.Path.Sprint(configFile))
		fmt.Fprintf(out, "  Private key:  %s\n", ui.Path.Sprint(store.PrivateKeyPath()))
		fmt.Fprintf(out, "  Public key:   %s\n", ui.Path.Sprint(store.PublicKeyPath()))
		fmt.Fprintf(out, "  Metadata:     %s\n", ui.Path.Sprint(workflows.MetadataPath(store)))
		fmt.Fprintf(out, "  Audit log:    %s\n", ui.Path.Sprint(settings.AuditLogPath()))
		fmt.Fprintf(out, "  Clipboard:    %t\n", clipboard)
		fmt.Fprintf(out, "  Auditing:     %t\n", auditOn)

		if configErr != nil {
			fmt.Fprint(cmd.ErrOrStderr(), ui.EnsureNewline(formatError(configErr)))
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config.toml with the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := configs.UserHushSettings
		path := settings.ConfigFilePath()

		if _, err := os.Stat(path); err == nil {
			if configErr != nil {
				return fail(cmd, configErr)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Ok("Config already exists at "+ui.Path.Sprint(path)))
			return nil
		}

		if err := os.MkdirAll(settings.ConfigsPath, 0700); err != nil {
			return fail(cmd, fmt.Errorf("failed to create config directory: %w", err))
		}

		cfg := &configs.UserConfig{}
		if configs.GlobalUserConfig != nil {
			*cfg = *configs.GlobalUserConfig
		}
		cfg.Keys.Dir = settings.KeysPath
		cfg.Keys.Name = settings.KeyName

		if err := configs.SaveUserConfig(settings.ConfigsPath, cfg); err != nil {
			return fail(cmd, err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Ok("Wrote "+ui.Path.Sprint(path)))
		return nil
	},
}
