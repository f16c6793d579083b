// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage (~/.hygiene/config.toml)
//   - LoadScanSettings: validated conversion of the config into domain.ScanSettings
//   - Watch: change notification for the config file
package file
