package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/PolarWolf314/hush/internal/configs"
	"github.com/PolarWolf314/hush/internal/keystore"
	logger "github.com/PolarWolf314/hush/internal/logging"
	"github.com/PolarWolf314/hush/internal/utils"
	"github.com/PolarWolf314/hush/internal/workflows"
)

var (
	verbose bool
	debug   bool
	keysDir string
	keyName string
	Logger  logger.Logger

	// configErr is set when config.toml exists but could not be read.
	configErr error

	// keyStoreOptions are appended to every key store the commands open.
	keyStoreOptions []keystore.Option

	// HushCmd is the root of the command tree.
	HushCmd = &cobra.Command{
		Use:   "hush",
		Short: "Encrypt and decrypt text with your own key pair",
		Long: `hush encrypts short text such as passwords and tokens into a single
base64 string that only your private key can open.

A 4096-bit RSA key pair is created the first time you encrypt. Each message
is sealed with a fresh AES-256 key wrapped with RSA-OAEP.

Examples:
  hush encrypt "my database password"
  echo "token" | hush encrypt
  hush decrypt AAIB...==
  hush decrypt --from-clipboard --to-clipboard
  hush keys show`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
			return loadUserConfig(cmd)
		},
	}
)

func init() {
	HushCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	HushCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	HushCmd.PersistentFlags().StringVar(&keysDir, "keys-dir", "", "directory holding the key pair (overrides HUSH_KEYS_DIR and config.toml)")
	HushCmd.PersistentFlags().StringVar(&keyName, "key-name", "", "file name of the private key (overrides HUSH_KEY_NAME and config.toml)")

	HushCmd.AddCommand(encryptCmd)
	HushCmd.AddCommand(decryptCmd)
	HushCmd.AddCommand(KeysCmd)
	HushCmd.AddCommand(logCmd)
	HushCmd.AddCommand(ConfigCmd)
}

// keyOptions returns the key location selected by flags, falling back to
// the configured settings inside the workflows.
func keyOptions() workflows.KeyOptions {
	return workflows.KeyOptions{
		Dir:          keysDir,
		Name:         keyName,
		Log:          Logger,
		StoreOptions: append([]keystore.Option{keystore.WithPassphrase(promptPassphrase)}, keyStoreOptions...),
	}
}

// loadUserConfig reads config.toml once per process. A broken file only
// stops commands that depend on it; the root and config commands carry on
// so the file can be inspected and fixed.
func loadUserConfig(cmd *cobra.Command) error {
	if configs.GlobalUserConfig != nil {
		return nil
	}
	configErr = configs.LoadGlobalUserConfig()
	if configErr == nil {
		return nil
	}

	Logger.Debugf("Loading config failed: %v", configErr)
	if !needsUserConfig(cmd) {
		return nil
	}
	return fail(cmd, configErr)
}

// needsUserConfig reports whether cmd belongs to a command group that reads
// settings from config.toml.
func needsUserConfig(cmd *cobra.Command) bool {
	top := cmd
	for top.HasParent() && top.Parent().HasParent() {
		top = top.Parent()
	}
	switch top {
	case encryptCmd, decryptCmd, KeysCmd, logCmd:
		return true
	}
	return false
}

func promptPassphrase() ([]byte, error) {
	return utils.ReadPassphrase("Enter passphrase for private key: ")
}

// Helper functions for testing

// GetHushCmd returns the HushCmd for testing.
func GetHushCmd() *cobra.Command {
	return HushCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	keysDir = ""
	keyName = ""
	keyStoreOptions = nil
	configErr = nil
	resetIOFlagState()
	resetRegenerateCommandState()
	resetLogCommandState()
	resetCobraFlagState(HushCmd)
}

// resetCobraFlagState clears the Changed marker on every flag in the tree so
// one test's flags do not leak into the next.
func resetCobraFlagState(c *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
		_ = flag.Value.Set(flag.DefValue)
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetCobraFlagState(sub)
	}
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}

// SetKeyStoreOptions sets options applied to every key store, for testing.
func SetKeyStoreOptions(opts ...keystore.Option) {
	keyStoreOptions = opts
}
