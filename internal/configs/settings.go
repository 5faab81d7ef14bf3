package configs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	kerrors "github.com/PolarWolf314/hush/internal/errors"
	"github.com/PolarWolf314/hush/internal/utils"
)

// DefaultKeyName is the file name of the private key when nothing overrides it.
const DefaultKeyName = "hush"

// UserSettings holds the resolved locations hush reads and writes.
// Precedence, lowest first: XDG defaults, config.toml, environment.
// config.toml is only applied once LoadGlobalUserConfig has run.
// Command-line flags are applied on top by the cmd package.
type UserSettings struct {
	KeysPath    string `env:"HUSH_KEYS_DIR"`
	ConfigsPath string `env:"HUSH_CONFIG_DIR"`
	KeyName     string `env:"HUSH_KEY_NAME"`
	Username    string
}

var (
	UserHushSettings *UserSettings
	GlobalUserConfig *UserConfig
)

func init() {
	if err := InitUserSettings(); err != nil {
		log.Fatalf("error initializing settings: %s", err)
	}
}

// DefaultUserSettings returns settings derived only from the XDG directories.
func DefaultUserSettings() (*UserSettings, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error getting home directory: %w", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("error getting config directory: %w", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	username, err := utils.GetUsername()
	if err != nil {
		return nil, fmt.Errorf("error getting username: %w", err)
	}

	return &UserSettings{
		KeysPath:    filepath.Join(dataDir, "hush", "keys"),
		ConfigsPath: filepath.Join(configDir, "hush"),
		KeyName:     DefaultKeyName,
		Username:    username,
	}, nil
}

// InitUserSettings resolves UserHushSettings from the XDG directories and
// the environment. config.toml is not read here; see LoadGlobalUserConfig.
func InitUserSettings() error {
	settings, err := DefaultUserSettings()
	if err != nil {
		return err
	}

	if err := env.Parse(settings); err != nil {
		return fmt.Errorf("error parsing environment: %w", err)
	}

	UserHushSettings = settings
	return nil
}

// LoadGlobalUserConfig reads config.toml from the resolved config directory
// into GlobalUserConfig and applies it to UserHushSettings. The environment
// is applied again afterwards so that it wins over the file.
//
// Returns ErrInvalidConfig if the file exists but cannot be parsed. In that
// case GlobalUserConfig and UserHushSettings are left unchanged.
func LoadGlobalUserConfig() error {
	settings := UserHushSettings
	if settings == nil {
		return fmt.Errorf("settings are not initialized")
	}

	config, err := LoadUserConfig(settings.ConfigsPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", kerrors.ErrInvalidConfig, settings.ConfigFilePath(), err)
	}

	resolved := *settings
	resolved.ApplyConfig(config)
	if err := env.Parse(&resolved); err != nil {
		return fmt.Errorf("error parsing environment: %w", err)
	}

	UserHushSettings = &resolved
	GlobalUserConfig = config
	return nil
}

// ApplyConfig copies non-empty values from the config file into s.
func (s *UserSettings) ApplyConfig(config *UserConfig) {
	if config == nil {
		return
	}
	if config.Keys.Dir != "" {
		s.KeysPath = config.Keys.Dir
	}
	if config.Keys.Name != "" {
		s.KeyName = config.Keys.Name
	}
}

// ConfigFilePath returns the location of config.toml.
func (s *UserSettings) ConfigFilePath() string {
	return filepath.Join(s.ConfigsPath, "config.toml")
}

// AuditLogPath returns the location of the audit log.
func (s *UserSettings) AuditLogPath() string {
	return filepath.Join(s.ConfigsPath, "audit.jsonl")
}
