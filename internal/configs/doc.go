// Package configs resolves where hush keeps its keys and settings.
//
// # Settings
//
// UserHushSettings is initialised at startup from, in increasing priority:
//
//   - XDG defaults: keys in $XDG_DATA_HOME/hush/keys, config in
//     $XDG_CONFIG_HOME/hush
//   - config.toml in the config directory
//   - environment: HUSH_KEYS_DIR, HUSH_CONFIG_DIR, HUSH_KEY_NAME
//
// # config.toml
//
//	[keys]
//	dir = "/path/to/keys"
//	name = "work"
//
//	[output]
//	clipboard = false
//
//	[audit]
//	disabled = false
//
// # Key metadata
//
// When a key pair is generated, <name>.metadata.toml is written next to it
// with the fingerprint, algorithm, size and creation time. TOML files are
// replaced atomically.
package configs
